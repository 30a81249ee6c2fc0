package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Rakhulsr/go-shoppingmall/app/cmd"
	"github.com/Rakhulsr/go-shoppingmall/app/configs"
	"github.com/Rakhulsr/go-shoppingmall/app/logger"
	"go.uber.org/zap"
)

func main() {
	env, err := configs.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Must(env.AppEnv)
	defer log.Sync()

	if err := cmd.NewCommand(env, log).Run(context.Background(), os.Args); err != nil {
		log.Fatal("Command failed", zap.Error(err))
	}
}
