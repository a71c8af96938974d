package handler

import (
    "context"
    "errors"
    "net/http"
    "net/mail"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-ticket-booking/internal/config"
    "github.com/iliyamo/cinema-ticket-booking/internal/model"
    "github.com/iliyamo/cinema-ticket-booking/internal/repository"
    "github.com/iliyamo/cinema-ticket-booking/internal/store"
    "github.com/iliyamo/cinema-ticket-booking/internal/utils"
)

// UserStore is the store's users resource.
type UserStore interface {
    GetUser(ctx context.Context, id string) (model.User, error)
    FindUserByEmail(ctx context.Context, email string) (model.User, error)
    CreateUser(ctx context.Context, u model.User) (model.User, error)
    UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.User, error)
}

// TokenStore persists refresh token hashes.
type TokenStore interface {
    StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error
    ValidateRefresh(ctx context.Context, tokenHash string) (string, error)
    Rotate(ctx context.Context, userID, oldHash, newHash string, exp time.Time) error
    RevokeByHash(ctx context.Context, tokenHash string) error
    RevokeAllForUser(ctx context.Context, userID string) error
}

// AuthHandler bundles dependencies for auth and profile endpoints.
type AuthHandler struct {
    Cfg    config.Config
    Users  UserStore
    Tokens TokenStore
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenStore) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
    FullName string `json:"fullName"`
    Email    string `json:"email"`
    Phone    string `json:"phone"`
    Password string `json:"password"`
}
type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}
type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type authResp struct {
    User    model.PublicUser `json:"user"`
    Access  tokenPart        `json:"access"`
    Refresh tokenPart        `json:"refresh"`
}

// issue creates an access/refresh pair for u and stores the refresh hash.
// When oldHash is set the previous refresh token is rotated out atomically.
func (h *AuthHandler) issue(ctx context.Context, u model.User, oldHash string) (authResp, error) {
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.EffectiveRole(), h.Cfg.AccessTTLMin)
    if err != nil {
        return authResp{}, err
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return authResp{}, err
    }
    newHash := utils.HashRefreshRaw(refresh.Raw)
    if oldHash != "" {
        err = h.Tokens.Rotate(ctx, u.ID, oldHash, newHash, refresh.Exp)
    } else {
        err = h.Tokens.StoreRefresh(ctx, u.ID, newHash, refresh.Exp)
    }
    if err != nil {
        return authResp{}, err
    }
    return authResp{
        User:    u.Public(),
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
    }, nil
}

// Register: create user in the store and return tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    req.FullName = strings.TrimSpace(req.FullName)
    req.Phone = strings.TrimSpace(req.Phone)
    if req.Email == "" || req.Password == "" || req.FullName == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "fullName/email/password required"})
    }
    if _, err := mail.ParseAddress(req.Email); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
    }
    if len(req.Password) < utils.MinPasswordLength {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "password too short"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    if _, err := h.Users.FindUserByEmail(ctx, req.Email); err == nil {
        return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
    } else if !errors.Is(err, store.ErrUserNotFound) {
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "user lookup failed"})
    }

    hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
    }
    u, err := h.Users.CreateUser(ctx, model.User{
        FullName:  req.FullName,
        Email:     req.Email,
        Phone:     req.Phone,
        Password:  hash,
        Role:      model.RoleCustomer,
        CreatedAt: time.Now().UTC(),
    })
    if err != nil {
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "create user failed"})
    }

    resp, err := h.issue(ctx, u, "")
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
    }
    return c.JSON(http.StatusCreated, resp)
}

// Login: verify credentials and return a new pair.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    u, err := h.Users.FindUserByEmail(ctx, req.Email)
    if err != nil {
        if errors.Is(err, store.ErrUserNotFound) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "user lookup failed"})
    }
    if !utils.VerifyPassword(u.Password, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }

    resp, err := h.issue(ctx, u, "")
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
    }
    return c.JSON(http.StatusOK, resp)
}

// Refresh: validate by hash, rotate, issue new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
    }
    hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    userID, err := h.Tokens.ValidateRefresh(ctx, hash)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
    }
    u, err := h.Users.GetUser(ctx, userID)
    if err != nil {
        if store.IsNotFound(err) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
        }
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "load user failed"})
    }

    resp, err := h.issue(ctx, u, hash)
    if err != nil {
        if errors.Is(err, repository.ErrInvalidToken) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
    }
    return c.JSON(http.StatusOK, resp)
}

// RefreshAccess returns a new access token for a valid refresh token
// without rotating it.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
    }
    hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    userID, err := h.Tokens.ValidateRefresh(ctx, hash)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
    }
    u, err := h.Users.GetUser(ctx, userID)
    if err != nil {
        if store.IsNotFound(err) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
        }
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "load user failed"})
    }
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.EffectiveRole(), h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "user":   u.Public(),
        "access": tokenPart{Token: access.Token, Expires: access.Exp},
    })
}

// Logout revokes the refresh token in the body, or every refresh token of
// the bearer's user when no body token is given.  The route runs behind
// OptionalJWT.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req refreshReq
    _ = c.Bind(&req)
    raw := strings.TrimSpace(req.RefreshToken)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    if raw != "" {
        hash := utils.HashRefreshRaw(raw)
        if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
        }
        if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
        }
        return c.NoContent(http.StatusNoContent)
    }
    if uid, err := getUserID(c); err == nil {
        if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
        }
        return c.NoContent(http.StatusNoContent)
    }
    return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header or refresh_token"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return writeError(c, err)
    }
    u, err := h.Users.GetUser(c.Request().Context(), uid)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, u.Public())
}

var genders = map[string]bool{"male": true, "female": true, "other": true}

// UpdateMe applies a partial profile update.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return writeError(c, err)
    }
    var patch model.UserPatch
    if err := c.Bind(&patch); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if patch.Empty() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
    }
    if patch.FullName != nil {
        name := strings.TrimSpace(*patch.FullName)
        if name == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "fullName cannot be empty"})
        }
        patch.FullName = &name
    }
    if patch.Gender != nil {
        g := strings.ToLower(strings.TrimSpace(*patch.Gender))
        if !genders[g] {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "gender must be male, female or other"})
        }
        patch.Gender = &g
    }
    if patch.DateOfBirth != nil && *patch.DateOfBirth != "" {
        if _, err := time.Parse(time.DateOnly, *patch.DateOfBirth); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "dateOfBirth must be yyyy-mm-dd"})
        }
    }

    u, err := h.Users.UpdateUser(c.Request().Context(), uid, patch)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, u.Public())
}
