package bootstrap

import (
	"context"
	"fmt"
	"time"

	"callbridge/internal/callsession"
	"callbridge/internal/clients/business"
	kafkaClient "callbridge/internal/clients/kafka"
	"callbridge/internal/clients/mail"
	"callbridge/internal/clients/openai"
	redisClient "callbridge/internal/clients/redis"
	twilioClient "callbridge/internal/clients/twilio"
	"callbridge/internal/config"
	"callbridge/internal/escalation"
	"callbridge/internal/observability"
	"callbridge/internal/tools"
	"callbridge/internal/transcript"
	"callbridge/internal/voice/audio"
	voiceCallHandler "callbridge/internal/voicecall/handler"
	voiceCallProcessor "callbridge/internal/voicecall/processor"

	"github.com/gin-gonic/gin"
)

const acceptClaimTTL = 2 * time.Hour

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store  *callsession.Store
	Logger *observability.Logger

	// Handlers
	VoiceCallHandler voiceCallHandler.Handler

	// Background workers
	Tools *tools.Orchestrator
	Sink  *transcript.Sink

	// Clients (for cleanup)
	KafkaProducer *kafkaClient.Producer
	Redis         *redisClient.Client
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	format, err := audio.ParseFormat(cfg.OpenAI.AudioFormat)
	if err != nil {
		return nil, fmt.Errorf("invalid AI_AUDIO_FORMAT: %w", err)
	}

	// Accept dedup: local always, Redis when configured so replicas agree
	var ledger callsession.AcceptLedger = callsession.NewMemoryLedger(acceptClaimTTL)
	if cfg.Redis.Enabled {
		deps.Redis, err = redisClient.NewClient(cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		ledger = callsession.TieredLedger{Local: ledger, Shared: deps.Redis}
	}
	deps.Store = callsession.NewStore(ledger, cfg.Timeouts.TransferGraceWindow, logger)

	// Optional call-event stream
	deps.KafkaProducer = kafkaClient.NewProducer(kafkaClient.ProducerConfig{
		Brokers: kafkaClient.ParseBrokers(cfg.Kafka.Brokers),
		Topic:   cfg.Kafka.Topic,
	}, logger)

	deps.Sink = transcript.NewSink(cfg.Transcript.SinkURL, deps.KafkaProducer, logger)
	go deps.Sink.Run(ctx)

	// Provider clients
	callsClient := openai.NewCallsClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.WebhookSecret, logger)
	telephony := twilioClient.NewClient(cfg.Twilio, logger)
	businessClient := business.NewClient(cfg.Business.PrimaryURL, cfg.Business.LegacyURL, cfg.Business.Timeout, logger)
	terminator := voiceCallProcessor.NewTerminator(callsClient, telephony)

	// Staff hand-off, only when telephony credentials and a staff number exist
	var escalator tools.Escalator
	var callbacks voiceCallHandler.Escalation
	if cfg.EscalationEnabled() {
		opts := escalation.Options{Publisher: deps.KafkaProducer, Hanger: terminator}
		if mailClient := mail.NewResendClient(cfg.Mail.ResendAPIKey, cfg.Mail.DefaultSender, cfg.Mail.ManagerEmail, logger); mailClient != nil {
			opts.Mailer = mailClient
		}
		orchestrator := escalation.New(deps.Store, telephony, escalation.Config{
			StaffPhone:         cfg.Restaurant.StaffPhone,
			StaffLanguage:      cfg.Restaurant.DefaultLanguage,
			PublicBaseURL:      cfg.Twilio.PublicBaseURL,
			Secret:             cfg.Timeouts.CallbackSecret,
			StaffAcceptTimeout: cfg.Timeouts.StaffAcceptTimeout,
		}, opts, logger)
		escalator = orchestrator
		callbacks = orchestrator
	} else {
		logger.Warn(ctx, "staff hand-off disabled: Twilio credentials or STAFF_PHONE_NUMBER missing")
	}

	// Tool calls
	deps.Tools = tools.New(
		businessClient,
		escalator,
		terminator,
		tools.NewValidator(cfg.Restaurant),
		tools.Config{
			HangupGraceDelay:   cfg.Timeouts.HangupGraceDelay,
			SupportedLanguages: cfg.Restaurant.SupportedLanguages,
		},
		logger,
	)

	// Call flow
	voiceCallProc := voiceCallProcessor.NewVoiceCallProcessor(
		deps.Store,
		callsClient,
		voiceCallProcessor.RealtimeDialer{Logger: logger},
		deps.Tools,
		voiceCallProcessor.Config{
			RealtimeURL:        cfg.OpenAI.RealtimeURL,
			APIKey:             cfg.OpenAI.APIKey,
			Model:              cfg.OpenAI.Model,
			Voice:              cfg.OpenAI.Voice,
			Instructions:       cfg.OpenAI.Instructions,
			TranscriptionModel: cfg.OpenAI.TranscriptionModel,
			Format:             format,
			DefaultLanguage:    cfg.Restaurant.DefaultLanguage,
			Tools:              tools.Definitions(cfg.EscalationEnabled()),
			HandshakeTimeout:   cfg.Timeouts.AIHandshakeTimeout,
			AcceptTimeout:      cfg.Timeouts.AcceptTimeout,
		},
		voiceCallProcessor.Options{Sink: deps.Sink, Publisher: deps.KafkaProducer},
		logger,
	)
	deps.VoiceCallHandler = voiceCallHandler.New(voiceCallProc, callsClient, callbacks, telephony, voiceCallHandler.Config{
		APIKey:         cfg.OpenAI.APIKey,
		PublicBaseURL:  cfg.Twilio.PublicBaseURL,
		ValidateTwilio: cfg.Twilio.ValidateWebhooks,
	}, logger)

	return deps, nil
}

// Health reports live call counts for the health endpoint
func (d *Dependencies) Health() gin.H {
	return gin.H{"active_calls": d.Store.Len()}
}

// Cleanup tears down live calls and closes all resources that need cleanup
func (d *Dependencies) Cleanup(ctx context.Context) {
	d.Store.CloseAll(ctx, "server shutdown")

	done := make(chan struct{})
	go func() {
		d.Tools.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		d.Logger.Warn(ctx, "tool calls still running at shutdown")
	}

	d.Sink.Close()
	if err := d.KafkaProducer.Close(); err != nil {
		d.Logger.Error(ctx, "failed to close kafka producer", err)
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error(ctx, "failed to close redis client", err)
		}
	}
}
