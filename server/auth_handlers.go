package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	errs "github.com/techagentng/cleancity/errors"
	"github.com/techagentng/cleancity/models"
	"github.com/techagentng/cleancity/server/response"
)

// respondAndAbort writes the response and stops the handler chain.
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

// currentUser pulls the authorized profile set by the middleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	userI, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := userI.(*models.User)
	return user, ok
}

var bindingTranslator ut.Translator

func init() {
	english := en.New()
	uni := ut.New(english, english)
	bindingTranslator, _ = uni.GetTranslator("en")
}

// bindingErrors turns gin binding failures into readable messages.
func bindingErrors(err error) string {
	translated := models.TranslateError(err, bindingTranslator)
	msg := ""
	for _, e := range translated {
		msg += e.Error()
	}
	if msg == "" && err != nil {
		msg = err.Error()
	}
	return msg
}

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.SignupRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			if verrs, ok := err.(validator.ValidationErrors); ok {
				response.JSON(c, bindingErrors(verrs), http.StatusBadRequest, nil, errs.ErrBadRequest)
				return
			}
			response.JSON(c, "invalid signup request", http.StatusBadRequest, nil, err)
			return
		}

		user, err := s.AuthService.SignupUser(&request)
		if err != nil {
			log.Printf("Signup error: %v", err)
			response.JSON(c, err.Error(), http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}

		response.JSON(c, "signup successful", http.StatusCreated, models.NewUserResponse(user), nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.LoginRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "invalid login request", http.StatusBadRequest, nil, err)
			return
		}

		loginResponse, apiErr := s.AuthService.LoginUser(&request)
		if apiErr != nil {
			response.JSON(c, apiErr.Message, apiErr.Status, nil, apiErr)
			return
		}

		response.JSON(c, "login successful", http.StatusOK, loginResponse, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := c.GetString("access_token")
		if accessToken == "" {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}
		if err := s.AuthService.LogoutUser(accessToken); err != nil {
			log.Printf("Logout error: %v", err)
			response.JSON(c, "logout failed", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}
		// Re-read the profile so reward points credited since login show up.
		fresh, err := s.AuthService.GetUserProfile(user.UserID)
		if err != nil {
			log.Printf("Error loading profile for %s: %v", user.UserID, err)
			response.JSON(c, "unable to load profile", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "profile retrieved", http.StatusOK, models.NewUserResponse(fresh), nil)
	}
}

func (s *Server) handleRegisterPushToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		var request models.PushTokenRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "invalid push token request", http.StatusBadRequest, nil, err)
			return
		}

		if err := s.AuthService.RegisterPushToken(user.UserID, request.ExpoPushToken); err != nil {
			log.Printf("Error registering push token for %s: %v", user.UserID, err)
			response.JSON(c, "unable to register push token", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "push token registered", http.StatusOK, nil, nil)
	}
}
