package main

import (
	"context"
	"time"

	"github.com/moyo/product-approval/config"
	"github.com/moyo/product-approval/internal/app"
	"github.com/moyo/product-approval/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	approvalService := app.New(sigCtx, cfg)

	approvalService.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	approvalService.Close(ctx)
}
