//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/announcement-relay/internal/bootstrap"
	"github.com/yanqian/announcement-relay/internal/domain/announcement"
	"github.com/yanqian/announcement-relay/internal/domain/notifier"
	"github.com/yanqian/announcement-relay/internal/domain/summarizer"
	"github.com/yanqian/announcement-relay/internal/infra/config"
	"github.com/yanqian/announcement-relay/internal/infra/llm/tokens"
	"github.com/yanqian/announcement-relay/internal/infra/messaging/twilio"
	"github.com/yanqian/announcement-relay/internal/infra/screener"
	httpiface "github.com/yanqian/announcement-relay/internal/interface/http"
	"github.com/yanqian/announcement-relay/internal/scheduler"
	"github.com/yanqian/announcement-relay/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideSummaryConfig,
		provideNotifierConfig,
		provideAnnouncementConfig,
		provideSchedulerConfig,
		provideChatClient,
		provideTokenEstimator,
		provideTwilioClient,
		provideScreenerClient,
		provideSampleSource,
		provideDedupStore,
		summarizer.NewService,
		notifier.NewService,
		announcement.NewService,
		scheduler.New,
		wire.Bind(new(summarizer.TokenCounter), new(*tokens.Estimator)),
		wire.Bind(new(notifier.Sender), new(*twilio.Client)),
		wire.Bind(new(announcement.LiveSource), new(*screener.Client)),
		wire.Bind(new(announcement.SampleSource), new(*screener.SampleSource)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
