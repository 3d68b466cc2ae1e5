package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brightfield-labs/vectordb/internal/config"
	"github.com/brightfield-labs/vectordb/internal/embeddings"
	"github.com/brightfield-labs/vectordb/internal/httpapi"
	"github.com/brightfield-labs/vectordb/internal/service"
	"github.com/brightfield-labs/vectordb/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	if showVersion {
		fmt.Println("vectordb dev build")
		return
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var embedder embeddings.Embedder
	switch cfg.Embedder.Kind {
	case config.EmbedderKindOllama:
		embedder = embeddings.NewOllamaEmbedder(cfg.Ollama.Host, cfg.Embedder.Model, cfg.Embedder.Dimension, 90*time.Second)
	default:
		embedder = embeddings.NewFakeEmbedder(cfg.Embedder.Dimension)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	libraryStore := store.New()
	indexService := service.NewIndexService(libraryStore, logger)
	libraryService := service.NewLibraryService(libraryStore, indexService)
	documentService := service.NewDocumentService(libraryStore, indexService)
	chunkService := service.NewChunkService(libraryStore, indexService, embedder)
	searchService := service.NewSearchService(libraryStore, indexService, embedder, logger)

	srv := httpapi.New(cfg, libraryService, documentService, chunkService, indexService, searchService, logger)

	httpServer := &http.Server{
		Addr:    cfg.Address,
		Handler: srv,
	}

	log.Printf("starting server on %s (embedder: %s)", cfg.Address, cfg.Embedder.Kind)

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	waitForShutdown(httpServer)
}

func waitForShutdown(srv *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		if err := srv.Close(); err != nil {
			log.Printf("forced close failed: %v", err)
		}
	}

	log.Println("server stopped")
}
