package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"taskmaster/internal/api"
	"taskmaster/internal/cache"
	"taskmaster/internal/config"
	"taskmaster/internal/manager"
	"taskmaster/internal/session"
	"taskmaster/internal/storage"
	"taskmaster/internal/tui"
)

func main() {
	configPathFlag := flag.String("config", "", "config file path")
	serverFlag := flag.String("server", "", "backend base URL")
	storageFlag := flag.String("storage", "", "local storage path")
	flag.Parse()

	cfgPath, err := resolveConfigPath(*configPathFlag)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	if *serverFlag != "" {
		cfg.ServerURL = *serverFlag
	}
	if *storageFlag != "" {
		cfg.StoragePath = *storageFlag
	}
	if cfg.StoragePath == "" {
		cfg.StoragePath = filepath.Join(filepath.Dir(cfgPath), "taskmaster.db")
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		log.Fatal(err)
	}

	if err := config.EnsureDir(cfg.StoragePath); err != nil {
		log.Fatal(err)
	}
	store, err := storage.Open(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	sess := session.New(store)
	if err := sess.Restore(context.Background()); err != nil {
		log.Fatal(err)
	}

	client := api.NewClient(cfg.ServerURL, cfg.RequestTimeout, sess)
	queryCache := cache.New()

	settings := manager.NewSettingsManager(client, queryCache, sess, store)
	deps := tui.Deps{
		Cache:    queryCache,
		Session:  sess,
		Auth:     manager.NewAuthManager(client, queryCache, sess),
		Tasks:    manager.NewTasksManager(client, queryCache, sess, settings.Settings),
		Lists:    manager.NewListManager(client, queryCache, sess),
		Settings: settings,
	}

	if err := tui.Run(deps); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultConfigPath()
}
