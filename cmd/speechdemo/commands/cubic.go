package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"speech-demo-clients/internal/audio"
	"speech-demo-clients/internal/service/cubic"
	"speech-demo-clients/internal/service/stt"
	"speech-demo-clients/internal/service/stt/google"
	"speech-demo-clients/internal/service/stt/mock"
)

var cubicCmd = &cobra.Command{
	Use:   "cubic",
	Short: "Speech recognition with Cubic",
}

var cubicStreamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Live transcription",
	Long: `Stream audio to a recognizer and print the transcripts as they
arrive. Audio comes from the record command, or from --file (raw 16-bit
PCM or WAV).

Providers:
  cubic   the Cubic server (default)
  google  Google Cloud Speech-to-Text
  mock    scripted transcripts, no server needed

Example:
  speechdemo cubic stream --provider mock --file sample.wav`,
	RunE: runCubicStream,
}

var cubicBatchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Transcribe a WAV file in one request",
	Long: `Send a whole WAV file and print the final transcripts. No
results are returned until the file is processed.

Example:
  speechdemo cubic batch --file sample.wav`,
	RunE: runCubicBatch,
}

var cubicFlags struct {
	provider   string
	model      string
	file       string
	eventsFile string
	partials   bool
}

func init() {
	sf := cubicStreamCmd.Flags()
	sf.StringVarP(&cubicFlags.provider, "provider", "p", "", "cubic, google or mock (default from STT_PROVIDER)")
	sf.StringVarP(&cubicFlags.model, "model", "m", "", "Cubic model ID (default from CUBIC_MODEL_ID)")
	sf.StringVarP(&cubicFlags.file, "file", "f", "", "stream this file instead of recording")
	sf.StringVar(&cubicFlags.eventsFile, "events-file", "", "append transcript events to this file (JSON lines, or msgpack for a .msgpack path)")
	sf.BoolVar(&cubicFlags.partials, "partials", true, "show partial results")

	bf := cubicBatchCmd.Flags()
	bf.StringVarP(&cubicFlags.model, "model", "m", "", "Cubic model ID (default from CUBIC_MODEL_ID)")
	bf.StringVarP(&cubicFlags.file, "file", "f", "", "WAV file (default from CUBIC_BATCH_FILE)")

	cubicCmd.AddCommand(cubicStreamCmd, cubicBatchCmd)
}

func cubicModel() string {
	if cubicFlags.model != "" {
		return cubicFlags.model
	}
	return cfg().Cubic.ModelID
}

func printCubicInfo(ctx context.Context, w io.Writer, c *cubic.Client) error {
	v, err := c.Version(ctx)
	if err != nil {
		return fmt.Errorf("version: %w", err)
	}
	models, err := c.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}

	l := listing{Version: map[string]string{"cubic": v.Cubic, "server": v.Server}}
	for _, m := range models {
		l.Models = append(l.Models, model{ID: m.ID, Name: m.Name, SampleRate: m.GetAttributes().GetSampleRate()})
	}
	return printListing(w, "Cubic", l)
}

// transcriber opens the selected provider. close releases it.
func transcriber(ctx context.Context, provider string, w io.Writer) (t stt.Transcriber, closer func(), err error) {
	c := cfg()
	switch provider {
	case "cubic":
		cc, err := dial(c.Cubic.Server)
		if err != nil {
			return nil, nil, err
		}
		client := cubic.New(cc, cubicModel(),
			cubic.WithChunkSize(c.Audio.ChunkSize),
			cubic.WithMetrics(application.Metrics),
		)
		if err := printCubicInfo(ctx, w, client); err != nil {
			closeConn(cc)
			return nil, nil, err
		}
		return client, func() { closeConn(cc) }, nil

	case "google":
		gc := google.ConfigFrom(c.STT, c.Audio.ChunkSize)
		client, err := google.New(ctx, gc)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {
			if err := client.Close(); err != nil {
				application.Logger.Warn().Err(err).Msg("Failed to close speech client")
			}
		}, nil

	case "mock":
		m := mock.New()
		m.ChunkSize = c.Audio.ChunkSize
		return m, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown provider %q (want cubic, google or mock)", provider)
}

// openAudio returns the recorder, or the file when one is given. WAV
// headers are skipped.
func openAudio(path string) (r io.Reader, stop func(), err error) {
	if path == "" {
		rec := audio.NewRecorder(cfg().Audio.RecordCmd)
		if err := rec.Start(); err != nil {
			return nil, nil, fmt.Errorf("start recorder: %w", err)
		}
		return rec, func() {
			if err := rec.Stop(); err != nil {
				application.Logger.Warn().Err(err).Msg("Failed to stop recorder")
			}
		}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	stop = func() { _ = f.Close() }
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		return f, stop, nil
	}
	info, data, err := audio.ReadWAV(f)
	if err != nil {
		stop()
		return nil, nil, err
	}
	application.Logger.Debug().
		Uint32("sampleRate", info.SampleRate).
		Uint16("channels", info.Channels).
		Dur("duration", info.Duration()).
		Msg("WAV file opened")
	return data, stop, nil
}

func runCubicStream(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	c := cfg()
	out := cmd.OutOrStdout()

	provider := cubicFlags.provider
	if provider == "" {
		provider = c.STT.Provider
	}
	t, closeT, err := transcriber(ctx, provider, out)
	if err != nil {
		return err
	}
	defer closeT()

	transcripts, err := newPipeline(provider, "", cubicFlags.eventsFile, c.STT.SampleRateHz)
	if err != nil {
		return err
	}
	defer func() {
		if err := transcripts.Close(); err != nil {
			application.Logger.Warn().Err(err).Msg("Failed to close transcript sinks")
		}
	}()

	src, stop, err := openAudio(cubicFlags.file)
	if err != nil {
		return err
	}
	defer stop()

	if provider == "cubic" {
		fmt.Fprintf(out, "Creating ASR stream using model '%s'\n", cubicModel())
	}
	if cubicFlags.file == "" {
		fmt.Fprintln(out, partialStyle.Render("(Recording. Ctrl+C to exit)"))
	}

	printer := stt.Funcs{
		Partial: func(text string) {
			if cubicFlags.partials {
				printPartial(out, text)
			}
		},
		Final: func(text string, _ float64) { printFinal(out, text) },
	}
	_, err = t.Transcribe(ctx, transcripts.Meter(src), stt.Callbacks{printer, transcripts})
	if err != nil && ctx.Err() != nil {
		// interrupted
		return nil
	}
	return err
}

func runCubicBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	c := cfg()
	out := cmd.OutOrStdout()

	path := cubicFlags.file
	if path == "" {
		path = c.Cubic.BatchFile
	}
	if err := requireText("file", path); err != nil {
		return err
	}

	cc, err := dial(c.Cubic.Server)
	if err != nil {
		return err
	}
	defer closeConn(cc)

	client := cubic.New(cc, cubicModel(), cubic.WithMetrics(application.Metrics))
	if err := printCubicInfo(ctx, out, client); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(out, "Running batch ASR on '%s' using model '%s'\n\n", path, cubicModel())
	results, err := client.Recognize(ctx, f)
	if err != nil {
		return fmt.Errorf("recognize: %w", err)
	}
	for _, r := range results {
		if r.IsPartial {
			continue
		}
		printLabel(out, "Transcript", r.Best().Transcript())
	}
	return nil
}
