package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dummassdenzel/Mubu/internal/devserver"
	"github.com/dummassdenzel/Mubu/internal/domain"
)

func main() {
	port := getEnv("HTTP_PORT", "8085")

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      devserver.New(seedProducts()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("dev API starting on :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func seedProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Mubu Classic Tote", Description: "Canvas tote bag", Price: 450, Category: "Bags", Series: "Classic", Size: "M", Material: "Canvas", Stock: 20},
		{ID: 2, Name: "Mubu Mini Crossbody", Description: "Compact crossbody bag", Price: 380, Category: "Bags", Series: "Mini", Size: "S", Material: "Leather", Stock: 12},
		{ID: 3, Name: "Mubu Keychain", Description: "Crocheted keychain", Price: 120, Category: "Accessories", Series: "Classic", Size: "S", Material: "Yarn", Stock: 50},
	}
}
