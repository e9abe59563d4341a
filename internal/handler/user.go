package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"tush00nka/marketplace_chat/internal/pkg/httputils"
	"tush00nka/marketplace_chat/internal/service"
)

type UserHandler struct {
	userService service.UserService
	serializer  *service.Serializer
}

func NewUserHandler(userService service.UserService, serializer *service.Serializer) *UserHandler {
	return &UserHandler{userService: userService, serializer: serializer}
}

// RegisterRoutes mounts the user routes on an authenticated router.
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/me", h.getMe).Methods("GET", "OPTIONS")
	router.HandleFunc("/users/{id:[0-9]+}", h.getUser).Methods("GET", "OPTIONS")
}

// @Summary Current user
// @Description Get the authenticated user
// @ID get-me
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.UserView
// @Failure 401 {object} response.ErrorResponse
// @Router /me [get]
func (h *UserHandler) getMe(w http.ResponseWriter, r *http.Request) {
	httputils.ResponseJSON(w, http.StatusOK, h.serializer.User(CurrentUser(r)))
}

// @Summary Get user
// @Description Get user by id
// @ID get-user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} service.UserView
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "id")
	if !ok {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		responseServiceError(w, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, h.serializer.User(user))
}
