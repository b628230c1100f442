package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"jungle-server/internal/agent"
	"jungle-server/internal/engine"
	"jungle-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	cfg := agent.NewConfig()

	var url, roomID, name, policyName, script string
	flag.StringVar(&url, "url", "ws://localhost:3001/ws", "Server websocket URL")
	flag.StringVar(&roomID, "room", "", "Room id to join (required)")
	flag.StringVar(&name, "name", "", "Display name (empty = generated by server)")
	flag.StringVar(&policyName, "policy", "greedy", "Move policy: random | greedy | lua")
	flag.StringVar(&script, "script", "", "Lua script for -policy lua")
	flag.DurationVar(&cfg.Delay, "delay", cfg.Delay, "Pause before each bot move")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Policy random seed")
	flag.Parse()

	if roomID == "" {
		logger.Log.Fatal("-room is required")
	}

	var policy engine.OpponentProvider
	switch policyName {
	case "random":
		policy = agent.NewRandomPolicy(cfg.Seed)
	case "greedy":
		policy = agent.NewGreedyPolicy(cfg.Seed)
	case "lua":
		lp, err := agent.LoadLuaPolicy(script)
		if err != nil {
			logger.Log.Fatal("Failed to load lua policy: ", err)
		}
		defer lp.Close()
		policy = lp
	default:
		logger.Log.Fatalf("Unknown policy %q", policyName)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log.WithField("policy", policyName).Infof("🤖 Bot joining room %s", roomID)

	bot := agent.NewBot(url, roomID, name, policy, cfg)
	if err := bot.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Log.WithError(err).Error("Bot stopped")
		stop()
		os.Exit(1)
	}
	logger.Log.Info("Done.")
}
