package main

import (
	"context"
	"fmt"
	"os"
	"todoTracker/internal/app"
	"todoTracker/internal/config"
	"todoTracker/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "загрузка конфигурации: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	a, err := app.New(cfg).Init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "инициализация приложения: %v\n", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		logger.Error("App: Сервер остановлен с ошибкой", err)
		logger.Sync()
		os.Exit(1)
	}
}
