package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/challengegame/negotiator/internal/agents"
	"github.com/challengegame/negotiator/internal/bus"
	"github.com/challengegame/negotiator/internal/catalog"
	"github.com/challengegame/negotiator/internal/config"
	"github.com/challengegame/negotiator/internal/conversation"
	"github.com/challengegame/negotiator/internal/phase"
	"github.com/challengegame/negotiator/internal/provider"
	"github.com/challengegame/negotiator/internal/respond"
	"github.com/challengegame/negotiator/internal/speech"
	"github.com/challengegame/negotiator/internal/stream"
	"github.com/challengegame/negotiator/internal/transcript"
)

var playSelect []string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run an interactive negotiation session",
	Long: "Validates the selected policy package, opens the negotiation table and\n" +
		"reads your replies from stdin. Type /help at the prompt for commands.",
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringSliceVar(&playSelect, "select", nil, "policy option IDs (e.g. a2,l1,t3)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	selections, err := catalog.Selections(playSelect...)
	if err != nil {
		return err
	}
	decision, err := phase.CanProceed(phase.PolicySelection, phase.Negotiation, phase.Proof{Selections: selections})
	if err != nil {
		return err
	}
	if !decision.Allow {
		return fmt.Errorf("cannot start negotiation: %s", decision.Reason)
	}

	eventBus := bus.New()

	// Transcript persistence.
	dbPath := cfg.Storage.DBPath
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dbPath = filepath.Join(home, config.ConfigDir, "transcripts.db")
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return err
		}
	}
	store, err := transcript.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Stream.Enabled {
		pub := stream.NewPublisher(cfg.Stream.Brokers, cfg.Stream.Topic, logger)
		pub.Attach(eventBus)
		defer pub.Close()
	}

	var text provider.TextGenerator
	if cfg.Model.APIKey != "" {
		text = provider.NewGroqProvider(cfg.Model.APIKey, cfg.Model.APIBase, cfg.Model.Name)
	} else {
		logger.Warn("no model API key configured, agents will use canned lines")
	}
	var classifier provider.EmotionClassifier
	if cfg.Emotion.APIKey != "" {
		classifier = provider.NewHumeClassifier(cfg.Emotion.APIKey, cfg.Emotion.APIBase)
	}
	var synth speech.Synthesizer = speech.Noop{}
	if cfg.Speech.Enabled {
		synth = speech.NewBridge(cfg.Speech.BridgeURL)
	}

	mgr, err := conversation.NewManager(conversation.Options{
		UserTitle:  cfg.Session.UserTitle,
		Roster:     agents.Roster(),
		Selections: selections,
		Responder: respond.New(respond.Options{
			Text:       text,
			Classifier: classifier,
			Logger:     logger,
		}),
		Synth:           synth,
		Bus:             eventBus,
		Logger:          logger,
		FirstAgentDelay: time.Duration(cfg.Session.FirstAgentDelayMs) * time.Millisecond,
		ReplyDelay:      time.Duration(cfg.Session.ReplyDelayMs) * time.Millisecond,
		AgentChatter:    cfg.Session.AgentChatter,
		ChatterChance:   cfg.Session.ChatterChance,
	})
	if err != nil {
		return err
	}

	if err := store.CreateSession(mgr.SessionID(), cfg.Session.UserTitle); err != nil {
		return err
	}
	if err := store.SetPhase(mgr.SessionID(), string(phase.Negotiation)); err != nil {
		return err
	}
	ids := make([]string, len(selections))
	for i, s := range selections {
		ids[i] = s.ID
	}
	if err := store.SaveSelections(mgr.SessionID(), ids); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	eventBus.Subscribe(func(ev bus.Event) {
		switch ev.Kind {
		case bus.EventMessageAppended:
			store.AppendMessage(transcript.Record{
				ID:        ev.MessageID,
				SessionID: ev.SessionID,
				Sender:    ev.Sender,
				Content:   ev.Content,
				Emotion:   ev.Emotion,
				IsUser:    ev.IsUser,
				AreaID:    ev.AreaID,
				CreatedAt: ev.Timestamp,
			})
			if ev.IsUser {
				return
			}
			fmt.Fprintf(out, "\n%s %s\n  %s\n",
				color.CyanString(ev.Sender), color.New(color.Faint).Sprintf("(%s)", ev.Emotion), ev.Content)
		case bus.EventTurnEnded:
			fmt.Fprint(out, color.GreenString("> "))
		}
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	mgr.Start(ctx)
	fmt.Fprintf(out, "Session %s started. Type /help for commands.\n", mgr.SessionID())

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			done, err := handleCommand(mgr, store, out, line)
			if err != nil {
				fmt.Fprintln(out, color.RedString(err.Error()))
			}
			if done {
				return nil
			}
			continue
		}
		if _, err := mgr.SendMessage(line); err != nil {
			fmt.Fprintln(out, color.RedString(err.Error()))
		}
	}
	return scanner.Err()
}

func handleCommand(mgr *conversation.Manager, store *transcript.Store, out io.Writer, line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/help":
		fmt.Fprintln(out, "/discuss <area-id>  focus the table on one policy area")
		fmt.Fprintln(out, "/done <area-id>     mark an area as discussed")
		fmt.Fprintln(out, "/reflect            move to the reflection phase")
		fmt.Fprintln(out, "/export             print the transcript")
		fmt.Fprintln(out, "/quit               end the session")
		return false, nil
	case "/discuss":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: /discuss <area-id>")
		}
		area, ok := catalog.Area(fields[1])
		if !ok {
			return false, fmt.Errorf("unknown policy area %q", fields[1])
		}
		return false, mgr.SwitchPolicy(area)
	case "/done":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: /done <area-id>")
		}
		mgr.MarkDiscussed(fields[1])
		return false, store.MarkDiscussed(mgr.SessionID(), fields[1])
	case "/reflect":
		decision, err := phase.CanProceed(phase.Negotiation, phase.Reflection, phase.Proof{
			UserMessageCount: mgr.UserMessageCount(),
		})
		if err != nil {
			return false, err
		}
		if !decision.Allow {
			return false, fmt.Errorf("%s", decision.Reason)
		}
		if err := store.SetPhase(mgr.SessionID(), string(phase.Reflection)); err != nil {
			return false, err
		}
		fmt.Fprintln(out, color.GreenString("Reflection phase unlocked. Session complete."))
		return true, nil
	case "/export":
		for _, row := range mgr.Export() {
			who := row.Agent
			if row.IsUser {
				who = "you -> " + row.Agent
			}
			fmt.Fprintf(out, "[%s] %s: %s\n", row.Timestamp.Format("15:04:05"), who, row.Content)
		}
		return false, nil
	case "/quit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %s", fields[0])
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
