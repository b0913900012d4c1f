// Command setupdb downloads the Northwind SQLite database into data/raw.
// An existing database file is left untouched.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"salesetl/internal/config"
	"salesetl/internal/infrastructure"
)

const downloadTimeout = 5 * time.Minute

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	flags := flag.NewFlagSet("setupdb", flag.ContinueOnError)
	url := flags.String("url", config.NorthwindDownloadURL, "database download URL")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stdout, "Configuration error: %v\n", err)
		return 1
	}
	paths, err := config.GetPaths()
	if err != nil {
		fmt.Fprintf(stdout, "Failed to resolve paths: %v\n", err)
		return 1
	}
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(stdout, "Failed to create directories: %v\n", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()
	paths.LogPathResolution(logger)

	destination := paths.Resolve(cfg.Source.Path)
	if config.FileExists(destination) {
		fmt.Fprintf(stdout, "Database already exists in: %s\n", destination)
		return 0
	}

	fmt.Fprintln(stdout, "Downloading the Northwind database...")
	ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
	defer cancel()

	size, err := downloadFile(ctx, http.DefaultClient, *url, destination)
	if err != nil {
		logger.Error("Database download failed",
			slog.String("url", *url),
			slog.String("error", err.Error()))
		fmt.Fprintf(stdout, "Error downloading database: %v\n", err)
		return 1
	}

	sizeMB := float64(size) / (1024 * 1024)
	logger.Info("Database downloaded",
		slog.String("path", destination),
		slog.Float64("size_mb", sizeMB))
	fmt.Fprintf(stdout, "Download complete, saved in: %s\nFile size: %.2f MB\n", destination, sizeMB)
	return 0
}

// downloadFile downloads url to path. The file only appears once the body
// has been received in full.
func downloadFile(ctx context.Context, client *http.Client, url, path string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}
	out, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, err
	}
	defer os.Remove(out.Name())

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		out.Close()
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(out.Name(), path); err != nil {
		return 0, err
	}
	return n, nil
}
