package main

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/announcement-relay/internal/infra/config"
	"github.com/yanqian/announcement-relay/internal/infra/dedupstore"
	"github.com/yanqian/announcement-relay/internal/infra/llm/chatgpt"
	"github.com/yanqian/announcement-relay/internal/infra/llm/openaisdk"
)

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Provider:       "http",
			APIKey:         "sk-test",
			Model:          "gpt-3.5-turbo",
			MaxTokens:      1000,
			Temperature:    0.3,
			MaxInputLength: 12000,
			Timeout:        time.Second,
		},
		Twilio: config.TwilioConfig{
			Recipients:   []string{"+1234567890", "+0987654321"},
			DelaySeconds: 2,
		},
		Message: config.MessageConfig{Footer: "footer", MaxLength: 1600},
		Dedup:   config.DedupConfig{Enabled: true, TTL: time.Hour},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProvideChatClientByProvider(t *testing.T) {
	cfg := testConfig()

	client, err := provideChatClient(cfg, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &chatgpt.Client{}, client)

	cfg.LLM.Provider = "sdk"
	client, err = provideChatClient(cfg, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &openaisdk.Client{}, client)

	cfg.LLM.APIKey = ""
	client, err = provideChatClient(cfg, discardLogger())
	require.Error(t, err)
	require.Nil(t, client)
}

func TestProvideDomainConfigs(t *testing.T) {
	cfg := testConfig()

	notify := provideNotifierConfig(cfg)
	require.Equal(t, []string{"+1234567890", "+0987654321"}, notify.Recipients)
	require.Equal(t, 2*time.Second, notify.Delay)

	ann := provideAnnouncementConfig(cfg)
	require.Equal(t, "footer", ann.Footer)
	require.Equal(t, 1600, ann.MaxMessageLength)
	require.True(t, ann.DedupEnabled)

	sum := provideSummaryConfig(cfg)
	require.Equal(t, 12000, sum.MaxInputLength)
}

func TestProvideDedupStoreFallsBackToMemory(t *testing.T) {
	cfg := testConfig()
	require.IsType(t, &dedupstore.MemoryStore{}, provideDedupStore(cfg, discardLogger()))

	cfg.Dedup.Valkey = config.ValkeyConfig{Enabled: true, Addr: "redis://%zz"}
	require.IsType(t, &dedupstore.MemoryStore{}, provideDedupStore(cfg, discardLogger()))
}

func TestBuildValkeyOptions(t *testing.T) {
	opt, err := buildValkeyOptions("localhost:6379")
	require.NoError(t, err)
	require.Equal(t, []string{"localhost:6379"}, opt.InitAddress)

	opt, err = buildValkeyOptions("redis://localhost:6380/0")
	require.NoError(t, err)
	require.Equal(t, []string{"localhost:6380"}, opt.InitAddress)
}
