package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/cleancity/errors"
	"github.com/techagentng/cleancity/models"
	"github.com/techagentng/cleancity/server/response"
	"gorm.io/gorm"
)

// handleCreateReport accepts a multipart form: locationText, latitude,
// longitude and a wastePhoto file. The photo lands in S3 first; only
// then is the report stored, so a stored report always references an
// existing blob.
func (s *Server) handleCreateReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("latitude")), 64)
		if err != nil {
			response.JSON(c, "Invalid latitude", http.StatusBadRequest, nil, err)
			return
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("longitude")), 64)
		if err != nil {
			response.JSON(c, "Invalid longitude", http.StatusBadRequest, nil, err)
			return
		}
		locationText := strings.TrimSpace(c.PostForm("locationText"))
		if locationText == "" {
			response.JSON(c, "locationText is required", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}

		photo, err := c.FormFile("wastePhoto")
		if err != nil {
			response.JSON(c, "wastePhoto file is required", http.StatusBadRequest, nil, err)
			return
		}

		photoURL, err := s.MediaService.UploadWastePhoto(photo, user.UserID)
		if err != nil {
			log.Printf("Error uploading waste photo: %v", err)
			response.JSON(c, "unable to upload photo", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}

		report, err := s.ReportService.CreateReport(user.UserID, &models.CreateReportRequest{
			LocationText:  locationText,
			Latitude:      lat,
			Longitude:     lng,
			WastePhotoURL: photoURL,
		})
		if err != nil {
			log.Printf("Error creating report: %v", err)
			response.JSON(c, "unable to create report", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}

		response.JSON(c, "report created", http.StatusCreated, report, nil)
	}
}

func (s *Server) handleGetReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		reports, err := s.ReportService.GetReportsForUser(user)
		if err != nil {
			log.Printf("Error listing reports for %s: %v", user.UserID, err)
			response.JSON(c, "unable to list reports", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "reports retrieved", http.StatusOK, reports, nil)
	}
}

func (s *Server) handleGetReportByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reportID := c.Param("reportID")
		report, err := s.ReportService.GetReportByID(reportID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.JSON(c, "report not found", http.StatusNotFound, nil, errs.ErrNotFound)
				return
			}
			response.JSON(c, "unable to fetch report", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "report retrieved", http.StatusOK, report, nil)
	}
}

// handleCollectReport is the worker marking a pickup done, with the
// pickup photo as proof. The resulting update event is what fires the
// completion handler.
func (s *Server) handleCollectReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}
		if !user.IsWorker() {
			response.JSON(c, "only workers can collect reports", http.StatusForbidden, nil, errs.New("forbidden", http.StatusForbidden))
			return
		}

		reportID := c.Param("reportID")

		pickupPhotoURL := ""
		if photo, err := c.FormFile("pickupPhoto"); err == nil {
			url, err := s.MediaService.UploadPickupPhoto(photo, user.UserID)
			if err != nil {
				log.Printf("Error uploading pickup photo: %v", err)
				response.JSON(c, "unable to upload photo", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
				return
			}
			pickupPhotoURL = url
		}

		report, err := s.ReportService.CollectReport(reportID, user.UserID, pickupPhotoURL)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.JSON(c, "report not found", http.StatusNotFound, nil, errs.ErrNotFound)
				return
			}
			log.Printf("Error collecting report %s: %v", reportID, err)
			response.JSON(c, err.Error(), http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}

		response.JSON(c, "report marked as collected", http.StatusOK, report, nil)
	}
}

func (s *Server) handleGetNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		notifications, err := s.UserRepository.GetNotificationsByUserID(user.UserID)
		if err != nil {
			response.JSON(c, "unable to list notifications", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "notifications retrieved", http.StatusOK, notifications, nil)
	}
}

func (s *Server) handleMarkNotificationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.JSON(c, "invalid notification id", http.StatusBadRequest, nil, err)
			return
		}

		if err := s.UserRepository.MarkNotificationRead(uint(id), user.UserID); err != nil {
			response.JSON(c, "unable to update notification", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "notification marked read", http.StatusOK, nil, nil)
	}
}
