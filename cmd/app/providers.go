package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/announcement-relay/internal/domain/announcement"
	"github.com/yanqian/announcement-relay/internal/domain/notifier"
	"github.com/yanqian/announcement-relay/internal/domain/summarizer"
	"github.com/yanqian/announcement-relay/internal/infra/config"
	"github.com/yanqian/announcement-relay/internal/infra/dedupstore"
	"github.com/yanqian/announcement-relay/internal/infra/llm/chatgpt"
	"github.com/yanqian/announcement-relay/internal/infra/llm/openaisdk"
	"github.com/yanqian/announcement-relay/internal/infra/llm/tokens"
	"github.com/yanqian/announcement-relay/internal/infra/messaging/twilio"
	"github.com/yanqian/announcement-relay/internal/infra/screener"
	"github.com/yanqian/announcement-relay/internal/scheduler"
)

func provideSummaryConfig(cfg *config.Config) summarizer.Config {
	return summarizer.Config{
		Model:          cfg.LLM.Model,
		MaxTokens:      cfg.LLM.MaxTokens,
		Temperature:    cfg.LLM.Temperature,
		MaxInputLength: cfg.LLM.MaxInputLength,
		SystemPrompt:   cfg.LLM.SystemPrompt,
	}
}

func provideNotifierConfig(cfg *config.Config) notifier.Config {
	return notifier.Config{
		Recipients: cfg.Twilio.Recipients,
		Delay:      cfg.Twilio.Delay(),
	}
}

func provideAnnouncementConfig(cfg *config.Config) announcement.Config {
	return announcement.Config{
		Footer:           cfg.Message.Footer,
		MaxMessageLength: cfg.Message.MaxLength,
		DedupEnabled:     cfg.Dedup.Enabled,
		DedupTTL:         cfg.Dedup.TTL,
		ReserveTTL:       cfg.Dedup.ReserveTTL,
	}
}

func provideSchedulerConfig(cfg *config.Config) scheduler.Config {
	return scheduler.Config{
		Spec:     cfg.Schedule.Cron,
		Timeout:  cfg.Schedule.Timeout,
		Timezone: cfg.Schedule.Timezone,
	}
}

func provideChatClient(cfg *config.Config, logger *slog.Logger) (summarizer.ChatClient, error) {
	if cfg.LLM.Provider == "sdk" {
		client, err := openaisdk.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
		if err != nil {
			return nil, err
		}
		logger.Info("using openai sdk chat client", "model", cfg.LLM.Model)
		return client, nil
	}
	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func provideTokenEstimator(cfg *config.Config) *tokens.Estimator {
	return tokens.NewEstimator(cfg.LLM.Model)
}

func provideTwilioClient(cfg *config.Config) (*twilio.Client, error) {
	return twilio.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.From)
}

func provideScreenerClient(cfg *config.Config, logger *slog.Logger) *screener.Client {
	return screener.NewClient(cfg.Screener.BaseURL, cfg.Screener.PageURL, cfg.Screener.CookieHeader, cfg.Screener.Timeout, logger)
}

func provideSampleSource(cfg *config.Config) *screener.SampleSource {
	return screener.NewSampleSource(cfg.Screener.BaseURL)
}

func provideDedupStore(cfg *config.Config, logger *slog.Logger) announcement.DedupStore {
	if cfg.Dedup.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg.Dedup.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return dedupstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return dedupstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("dedup valkey store enabled", "addr", cfg.Dedup.Valkey.Addr)
			return dedupstore.NewValkeyStore(client, cfg.Dedup.Valkey.Prefix)
		}
	}
	return dedupstore.NewMemoryStore()
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
