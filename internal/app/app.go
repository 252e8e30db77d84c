package app

import (
	"context"
	"fmt"
	"log"

	"github.com/boardsync/boardsync/config"
	v1 "github.com/boardsync/boardsync/internal/handlers/http/v1"
	"github.com/boardsync/boardsync/internal/httpserver"
	"github.com/boardsync/boardsync/internal/realtime"
	"github.com/boardsync/boardsync/internal/repository/postgres"
	"github.com/boardsync/boardsync/internal/service"
	"github.com/boardsync/boardsync/internal/storage/minio"
)

func Run(conf config.Config) error {
	ctx := context.Background()

	repo, err := postgres.New(conf.Postgres)
	if err != nil {
		return fmt.Errorf("error when setting up repository: %v", err)
	}

	// The hub consults the repository as its access guard on every join; it is
	// built once here and injected everywhere it is needed.
	hub := realtime.NewHub(repo, conf.Realtime.SendBuffer)

	svc := service.New(repo, hub)

	blobs, err := minio.New(conf.MinIO)
	if err != nil {
		// Attachments degrade to metadata-only errors; everything else works.
		log.Println("[SETUP] attachment storage unavailable:", err)
	} else {
		svc.WithBlobStore(blobs)
	}

	handler, err := v1.New(svc, hub, conf.Auth)
	if err != nil {
		return fmt.Errorf("error when setting up handler: %v", err)
	}

	httpserver := httpserver.New(conf.HTTPServer, handler)

	return httpserver.Run(ctx)
}
