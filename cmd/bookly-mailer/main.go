package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bookly/internal/config"
	"bookly/internal/mail"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	queue, err := mail.NewQueue(cfg.NATSURL)
	if err != nil {
		log.Fatal().Err(err).Str("url", cfg.NATSURL).Msg("connect nats")
	}
	defer queue.Close()

	sender := mail.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, cfg.MailFromName)

	sub, err := queue.Consume(ctx, "bookly-mailer", func(_ context.Context, msg mail.Message) error {
		if err := sender.Send(msg); err != nil {
			log.Error().Err(err).Strs("to", msg.To).Str("subject", msg.Subject).Msg("send mail")
			return err
		}
		log.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("mail sent")
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("subscribe mail stream")
	}
	defer func() {
		if err := sub.Close(); err != nil {
			log.Error().Err(err).Msg("close subscription")
		}
	}()

	log.Info().Msg("bookly-mailer running")
	<-ctx.Done()
}
