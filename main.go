package main

import (
	"context"
	"log"

	"github.com/techagentng/cleancity/config"
	"github.com/techagentng/cleancity/db"
	"github.com/techagentng/cleancity/mailingservices"
	"github.com/techagentng/cleancity/realtime"
	"github.com/techagentng/cleancity/server"
	"github.com/techagentng/cleancity/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Initialize Mailgun client
	mailgunClient := &mailingservices.Mailgun{}
	mailgunClient.Init(conf)

	gormDB := db.GetDB(conf)
	userRepo := db.NewUserRepo(gormDB)
	reportRepo := db.NewWasteReportRepo(gormDB)

	hub := realtime.NewHub()

	pushService := services.NewNotificationService()
	alertService := services.NewAlertService(userRepo, pushService, mailgunClient)

	authService := services.NewAuthService(userRepo, conf)
	reportService := services.NewWasteReportService(reportRepo, hub, conf)
	mediaService := services.NewMediaService(conf)
	assignmentService := services.NewAssignmentService(userRepo, reportRepo, hub, alertService, conf)
	completionService := services.NewCompletionService(userRepo, reportRepo, hub, nil, conf)

	// The lifecycle engine is the in-process trigger infrastructure:
	// it reacts to report create/update events on the hub.
	engine := services.NewLifecycleEngine(hub, assignmentService, completionService)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go engine.Run(ctx)

	s := &server.Server{
		Config:                conf,
		Mail:                  mailgunClient,
		UserRepository:        userRepo,
		WasteReportRepository: reportRepo,
		AuthService:           authService,
		ReportService:         reportService,
		MediaService:          mediaService,
		AssignmentService:     assignmentService,
		CompletionService:     completionService,
		Hub:                   hub,
	}

	s.Start()
}
