package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/taurusgroup/oblivious-transfer/pkg/aead"
	"github.com/taurusgroup/oblivious-transfer/pkg/ingest"
	"github.com/taurusgroup/oblivious-transfer/pkg/math/curve"
	"github.com/taurusgroup/oblivious-transfer/pkg/ot"
	"github.com/taurusgroup/oblivious-transfer/pkg/party"
	"github.com/taurusgroup/oblivious-transfer/pkg/protocol"
	otrounds "github.com/taurusgroup/oblivious-transfer/protocols/ot"
	"golang.org/x/sync/errgroup"
)

const (
	senderID   party.ID = "sender"
	receiverID party.ID = "receiver"
)

type options struct {
	messages string
	index    uint32
	group    string
	cipher   string
	session  string
	logLevel string
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "otdemo --messages FILE --index C",
		Short: "Run a 1-out-of-n oblivious transfer between two local parties",
		Long: `otdemo reads one message per line from FILE, and runs a Sender holding
these messages against a Receiver choosing message C, over an in-memory network.
The Receiver's output is printed on stdout.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger(opts.logLevel)
			if err != nil {
				return err
			}
			message, err := run(cmd.Context(), opts, log)
			if err != nil {
				log.Error().Err(err).Msg("transfer failed")
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", message)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.messages, "messages", "", "file with one message per line")
	flags.Uint32Var(&opts.index, "index", 0, "index of the message to obtain, starting at 0")
	flags.StringVar(&opts.group, "group", curve.Ristretto255{}.Name(), "group to use: ristretto255 or secp256k1")
	flags.StringVar(&opts.cipher, "cipher", aead.ChaCha20Poly1305.String(), "cipher suite: chacha20poly1305 or aes256gcm")
	flags.StringVar(&opts.session, "session", "", "optional session identifier")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (default $LOG, or info)")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "maximum duration of the transfer")
	_ = cmd.MarkFlagRequired("messages")
	return cmd
}

// newLogger returns a console logger on stderr, at level if set, or at the level named by $LOG.
func newLogger(level string) (zerolog.Logger, error) {
	if level == "" {
		level = os.Getenv("LOG")
	}
	if level == "" {
		level = zerolog.InfoLevel.String()
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).Level(lvl).With().Timestamp().Logger(), nil
}

func run(ctx context.Context, opts options, log zerolog.Logger) ([]byte, error) {
	group, err := curve.FromName(opts.group)
	if err != nil {
		return nil, err
	}
	suite, err := aead.SuiteFromName(opts.cipher)
	if err != nil {
		return nil, err
	}
	messages, err := ingest.ReadFile(opts.messages)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("messages", len(messages)).
		Str("group", group.Name()).
		Str("cipher", suite.String()).
		Msg("starting transfer")

	senderLog := log.With().Str("party", string(senderID)).Logger()
	receiverLog := log.With().Str("party", string(receiverID)).Logger()
	senderConfig := ot.Config{Group: group, Suite: suite, Logger: &senderLog}
	receiverConfig := ot.Config{N: uint32(len(messages)), Group: group, Suite: suite, Logger: &receiverLog}

	var sessionID []byte
	if opts.session != "" {
		sessionID = []byte(opts.session)
	}
	sender, err := protocol.NewTwoPartyHandler(
		otrounds.StartSend(senderConfig, senderID, receiverID, messages),
		sessionID, true, protocol.WithLogger(senderLog))
	if err != nil {
		return nil, err
	}
	receiver, err := protocol.NewTwoPartyHandler(
		otrounds.StartReceive(receiverConfig, receiverID, senderID, opts.index),
		sessionID, false, protocol.WithLogger(receiverLog))
	if err != nil {
		sender.Stop()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	network := NewNetwork(party.NewIDSlice([]party.ID{senderID, receiverID}))
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return handlerLoop(ctx, senderID, sender, network) })
	g.Go(func() error { return handlerLoop(ctx, receiverID, receiver, network) })
	if err = g.Wait(); err != nil {
		return nil, err
	}

	if _, err = sender.Result(); err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	result, err := receiver.Result()
	if err != nil {
		return nil, fmt.Errorf("receiver: %w", err)
	}
	received, ok := result.(*otrounds.ReceiveResult)
	if !ok {
		return nil, errors.New("receiver: unexpected result type")
	}
	log.Info().Uint32("index", received.Index).Int("size", len(received.Message)).Msg("transfer done")
	return received.Message, nil
}
