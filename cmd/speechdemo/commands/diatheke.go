package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"speech-demo-clients/internal/audio"
	"speech-demo-clients/internal/service/diatheke"
)

var diathekeCmd = &cobra.Command{
	Use:   "diatheke",
	Short: "Dialog with a Diatheke model",
	Long: `Dialog with a Diatheke model.

The session runs until the model ends the dialog, input ends (Ctrl+D) or
the command is interrupted (Ctrl+C). The session is deleted in every case.`,
}

var diathekeTextCmd = &cobra.Command{
	Use:   "text",
	Short: "Text dialog on the terminal",
	Long: `Type user input at the Diatheke> prompt. Replies, commands and
transcribe actions are printed.

Example:
  speechdemo diatheke text --model demo`,
	RunE: runDiathekeText,
}

var diathekeAudioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Voice dialog with an external recorder and player",
	Long: `Speak to the model. Audio is recorded with the configured record
command (16 kHz mono 16-bit signed little-endian on stdout) and replies are
played with the play command.

With --wakeword, input actions that require a wake word wait for it first.
Recognition results are published as transcript events.

Example:
  speechdemo diatheke audio --wakeword --events-file transcripts.jsonl`,
	RunE: runDiathekeAudio,
}

var diathekeFlags struct {
	model      string
	wakeword   bool
	eventsFile string
	metadata   string
}

func init() {
	diathekeTextCmd.Flags().StringVarP(&diathekeFlags.model, "model", "m", "", "model ID (default from DIATHEKE_TEXT_MODEL_ID)")
	diathekeTextCmd.Flags().StringVar(&diathekeFlags.metadata, "metadata", "", "custom session metadata")

	af := diathekeAudioCmd.Flags()
	af.StringVarP(&diathekeFlags.model, "model", "m", "", "model ID (default from DIATHEKE_AUDIO_MODEL_ID)")
	af.BoolVar(&diathekeFlags.wakeword, "wakeword", false, "wait for the wake word when an input requires it")
	af.StringVar(&diathekeFlags.eventsFile, "events-file", "", "append transcript events to this file (JSON lines, or msgpack for a .msgpack path)")
	af.StringVar(&diathekeFlags.metadata, "metadata", "", "custom session metadata")

	diathekeCmd.AddCommand(diathekeTextCmd, diathekeAudioCmd)
}

func modelOr(def string) string {
	if diathekeFlags.model != "" {
		return diathekeFlags.model
	}
	return def
}

func printDiathekeInfo(ctx context.Context, w io.Writer, c *diatheke.Client) error {
	v, err := c.Version(ctx)
	if err != nil {
		return fmt.Errorf("version: %w", err)
	}
	models, err := c.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}

	l := listing{Version: map[string]string{
		"diatheke": v.Diatheke,
		"chosun":   v.Chosun,
		"cubic":    v.Cubic,
		"luna":     v.Luna,
	}}
	for _, m := range models {
		l.Models = append(l.Models, model{ID: m.ID, Name: m.Name, Language: m.Language, SampleRate: m.ASRSampleRate})
	}
	return printListing(w, "Diatheke", l)
}

func runDiathekeText(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	c := cfg()

	cc, err := dial(c.Diatheke.Server)
	if err != nil {
		return err
	}
	defer closeConn(cc)

	client := diatheke.New(cc, diatheke.WithMetrics(application.Metrics))
	out := cmd.OutOrStdout()
	if err := printDiathekeInfo(ctx, out, client); err != nil {
		return err
	}

	var opts []diatheke.SessionOption
	if diathekeFlags.metadata != "" {
		opts = append(opts, diatheke.WithSessionMetadata(diathekeFlags.metadata, ""))
	}
	session, err := client.CreateSession(ctx, modelOr(c.Diatheke.TextModelID), opts...)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	loop := &diatheke.Loop{
		Sessions: client,
		Handler:  diatheke.NewTextHandler(client, cmd.InOrStdin(), out),
		Metrics:  application.Metrics,
	}
	err = loop.Run(ctx, session)
	fmt.Fprintln(out)
	return err
}

func runDiathekeAudio(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	c := cfg()

	cc, err := dial(c.Diatheke.Server)
	if err != nil {
		return err
	}
	defer closeConn(cc)

	client := diatheke.New(cc,
		diatheke.WithMetrics(application.Metrics),
		diatheke.WithWakewordModel(c.Diatheke.WakewordModelID),
		diatheke.WithDefaultChunkSize(c.Audio.ChunkSize),
	)
	out := cmd.OutOrStdout()
	if err := printDiathekeInfo(ctx, out, client); err != nil {
		return err
	}

	var opts []diatheke.SessionOption
	if c.Diatheke.Wakeword != "" {
		opts = append(opts, diatheke.WithWakeword(c.Diatheke.Wakeword))
	}
	if diathekeFlags.metadata != "" {
		opts = append(opts, diatheke.WithSessionMetadata(diathekeFlags.metadata, ""))
	}
	session, err := client.CreateSession(ctx, modelOr(c.Diatheke.AudioModelID), opts...)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	transcripts, err := newPipeline("diatheke", session.Token.GetID(), diathekeFlags.eventsFile, c.STT.SampleRateHz)
	if err != nil {
		derr := client.DeleteSession(context.WithoutCancel(ctx), session.Token)
		return errors.Join(err, derr)
	}
	defer func() {
		if err := transcripts.Close(); err != nil {
			application.Logger.Warn().Err(err).Msg("Failed to close transcript sinks")
		}
	}()

	handler := &diatheke.AudioHandler{
		Client:      client,
		Recorder:    audio.NewRecorder(c.Audio.RecordCmd),
		Player:      audio.NewPlayer(c.Audio.PlayCmd),
		Out:         out,
		Wakeword:    diathekeFlags.wakeword,
		Transcripts: transcripts,
		Meter:       transcripts.Meter,
	}
	fmt.Fprintln(os.Stderr, partialStyle.Render("(Ctrl+C to exit)"))

	loop := &diatheke.Loop{
		Sessions:    client,
		Handler:     handler,
		KeepOnEmpty: true,
		Metrics:     application.Metrics,
	}
	return loop.Run(ctx, session)
}
