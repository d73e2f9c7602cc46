// bulksend sends the invitation template to a list of numbers. Recipients
// come from --numbers (one per line) and/or positional arguments.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/PratikDhanave/event-rsvp-bot/internal/logger"
	"github.com/PratikDhanave/event-rsvp-bot/internal/whatsapp"
)

type credentials struct {
	Token         string        `env:"WHATSAPP_TOKEN,required"`
	PhoneNumberID string        `env:"PHONE_NUMBER_ID,required"`
	GraphAPIBase  string        `env:"GRAPH_API_BASE" envDefault:"https://graph.facebook.com/v21.0"`
	Timeout       time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		numbersFile string
		tmpl        whatsapp.Template
	)

	flags := pflag.NewFlagSet("bulksend", pflag.ContinueOnError)
	flags.StringVarP(&numbersFile, "numbers", "f", "", "file with one recipient per line")
	flags.StringVarP(&tmpl.Name, "template", "t", "vip_inv2", "approved template name")
	flags.StringVarP(&tmpl.Language, "language", "l", "en", "template language code")
	flags.StringVar(&tmpl.HeaderVideoURL, "video", "", "header video URL")
	flags.StringSliceVar(&tmpl.BodyParams, "param", nil, "body parameter, repeatable")
	flags.StringSliceVar(&tmpl.QuickReplies, "quick-reply", []string{"CONFIRM_ATTEND", "DECLINE_ATTEND"}, "quick-reply payloads by button index")

	if err := flags.Parse(args); err != nil {
		return err
	}

	numbers := flags.Args()
	if numbersFile != "" {
		f, err := os.Open(numbersFile)
		if err != nil {
			return err
		}
		fromFile, err := whatsapp.ReadNumbers(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("read %s: %w", numbersFile, err)
		}
		numbers = append(numbers, fromFile...)
	}
	if len(numbers) == 0 {
		return fmt.Errorf("no recipients: pass --numbers or phone numbers as arguments")
	}

	_ = godotenv.Load()
	var creds credentials
	if err := env.Parse(&creds); err != nil {
		return err
	}

	log := logger.New("info", "console")
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := whatsapp.NewClient(creds.GraphAPIBase, creds.Token, creds.Timeout)
	results := whatsapp.Broadcast(ctx, client, creds.PhoneNumberID, numbers, tmpl, func(r whatsapp.BroadcastResult) {
		if r.Err != nil {
			log.Error("template failed", zap.String("to", r.To), zap.Error(r.Err))
			return
		}
		log.Info("template sent", zap.String("to", r.To), zap.String("template", tmpl.Name), zap.String("message_id", r.MessageID))
	})

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	log.Info("broadcast finished", zap.Int("sent", len(results)-failed), zap.Int("failed", failed), zap.Int("skipped", len(numbers)-len(results)))
	if failed > 0 {
		return fmt.Errorf("%d of %d sends failed", failed, len(numbers))
	}
	return nil
}
