package auth

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/flashreport/api/internal/pkg/response"
	"github.com/flashreport/api/internal/pkg/token"
)

type Handler struct {
	store  CredentialStore
	tokens *token.Service
}

func NewHandler(store CredentialStore, tokens *token.Service) *Handler {
	return &Handler{
		store:  store,
		tokens: tokens,
	}
}

// Signup godoc
// @Summary Register a new user
// @Description Create a user account; the role is always USER
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Registration data"
// @Success 201 {object} response.APIResponse{data=AuthResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}

	ctx := c.Request.Context()

	taken, err := h.store.ExistsByUsername(ctx, req.Username)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if taken {
		response.Conflict(c, "Username is already taken")
		return
	}

	inUse, err := h.store.ExistsByEmail(ctx, req.Email)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if inUse {
		response.Conflict(c, "Email is already in use")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.InternalServerError(c, "Failed to process password")
		return
	}

	// Role is always USER at signup; promotion is a separate admin operation.
	user := &User{
		Firstname:   req.Firstname,
		Lastname:    req.Lastname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Username:    req.Username,
		Password:    string(hashed),
		Role:        RoleUser,
	}

	if err := h.store.Create(ctx, user); err != nil {
		response.FromError(c, err)
		return
	}

	tok, err := h.tokens.Issue(user.Username, user.Authorities())
	if err != nil {
		response.InternalServerError(c, "Failed to generate token")
		return
	}

	response.Created(c, "User created successfully", NewAuthResponse(user, tok))
}

// Signin godoc
// @Summary Authenticate a user
// @Description Exchange username and password for a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SigninRequest true "Credentials"
// @Success 200 {object} response.APIResponse{data=AuthResponse}
// @Failure 401 {object} response.APIResponse
// @Router /auth/signin [post]
func (h *Handler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}

	user, err := h.store.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		response.FromError(c, err)
		return
	}
	// Same message whether the username or the password was wrong.
	if user == nil {
		response.Unauthorized(c, "Invalid username or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		response.Unauthorized(c, "Invalid username or password")
		return
	}

	tok, err := h.tokens.Issue(user.Username, user.Authorities())
	if err != nil {
		response.InternalServerError(c, "Failed to generate token")
		return
	}

	response.OK(c, "User is successfully logged in", NewAuthResponse(user, tok))
}
