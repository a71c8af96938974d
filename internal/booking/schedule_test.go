package booking

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

func TestGroupSchedule(t *testing.T) {
    at := func(day, hour int) time.Time { return time.Date(2026, 10, day, hour, 0, 0, 0, time.UTC) }
    showtimes := []model.Showtime{
        {ID: "3", Cinema: "CGV Vincom", Datetime: at(21, 20)},
        {ID: "1", Cinema: "Lotte", Datetime: at(20, 18)},
        {ID: "2", Cinema: "CGV Vincom", Datetime: at(20, 21)},
        {ID: "4", Cinema: "CGV Vincom", Datetime: at(20, 9)},
        {ID: "5", CinemaID: "bhd", Datetime: at(21, 10)},
    }

    days := GroupSchedule(showtimes, nil)
    require.Len(t, days, 2)

    assert.Equal(t, "2026-10-20", days[0].Date)
    require.Len(t, days[0].Cinemas, 2)
    assert.Equal(t, "CGV Vincom", days[0].Cinemas[0].Cinema)
    assert.Equal(t, "4", days[0].Cinemas[0].Showtimes[0].ID)
    assert.Equal(t, "2", days[0].Cinemas[0].Showtimes[1].ID)
    assert.Equal(t, "Lotte", days[0].Cinemas[1].Cinema)

    assert.Equal(t, "2026-10-21", days[1].Date)
    require.Len(t, days[1].Cinemas, 2)
    assert.Equal(t, "CGV Vincom", days[1].Cinemas[0].Cinema)
    assert.Equal(t, "bhd", days[1].Cinemas[1].Cinema)
}

func TestGroupSchedule_Location(t *testing.T) {
    hcm := time.FixedZone("ICT", 7*3600)
    st := model.Showtime{ID: "1", Cinema: "Lotte", Datetime: time.Date(2026, 10, 20, 18, 0, 0, 0, time.UTC)}

    days := GroupSchedule([]model.Showtime{st}, hcm)
    require.Len(t, days, 1)
    assert.Equal(t, "2026-10-21", days[0].Date)

    assert.Empty(t, GroupSchedule(nil, nil))
}
