package booking

import (
    "sort"
    "time"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// CinemaShowtimes is the list of showtimes of one cinema on one day.
type CinemaShowtimes struct {
    Cinema    string           `json:"cinema"`
    Showtimes []model.Showtime `json:"showtimes"`
}

// ScheduleDay groups a day's showtimes by cinema.
type ScheduleDay struct {
    Date    string            `json:"date"` // yyyy-MM-dd in loc
    Cinemas []CinemaShowtimes `json:"cinemas"`
}

// GroupSchedule groups showtimes by calendar day in loc (ascending), then
// by cinema name (ascending), each list ordered by start time.  A nil loc
// means UTC.
func GroupSchedule(showtimes []model.Showtime, loc *time.Location) []ScheduleDay {
    if loc == nil {
        loc = time.UTC
    }
    byDay := make(map[string]map[string][]model.Showtime)
    for _, st := range showtimes {
        day := st.Datetime.In(loc).Format(time.DateOnly)
        if byDay[day] == nil {
            byDay[day] = make(map[string][]model.Showtime)
        }
        name := st.Cinema
        if name == "" {
            name = st.CinemaID
        }
        byDay[day][name] = append(byDay[day][name], st)
    }

    days := make([]string, 0, len(byDay))
    for d := range byDay {
        days = append(days, d)
    }
    sort.Strings(days)

    out := make([]ScheduleDay, 0, len(days))
    for _, d := range days {
        cinemas := make([]string, 0, len(byDay[d]))
        for c := range byDay[d] {
            cinemas = append(cinemas, c)
        }
        sort.Strings(cinemas)
        day := ScheduleDay{Date: d, Cinemas: make([]CinemaShowtimes, 0, len(cinemas))}
        for _, c := range cinemas {
            list := byDay[d][c]
            sort.SliceStable(list, func(i, j int) bool { return list[i].Datetime.Before(list[j].Datetime) })
            day.Cinemas = append(day.Cinemas, CinemaShowtimes{Cinema: c, Showtimes: list})
        }
        out = append(out, day)
    }
    return out
}
