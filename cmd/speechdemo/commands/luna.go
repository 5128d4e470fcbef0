package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"speech-demo-clients/internal/audio"
	"speech-demo-clients/internal/service/luna"
	"speech-demo-clients/proto/lunapb"
)

var lunaCmd = &cobra.Command{
	Use:   "luna",
	Short: "Speak typed text with Luna",
	Long: `Type text at the Luna> prompt. Audio is played with the play
command as it is synthesized and also written to the output file.

Example:
  speechdemo luna --voice en_US_25 --output junk.raw`,
	RunE: runLuna,
}

var lunaFlags struct {
	voice  string
	output string
}

func init() {
	lunaCmd.Flags().StringVar(&lunaFlags.voice, "voice", "", "voice ID (default from LUNA_VOICE_ID)")
	lunaCmd.Flags().StringVarP(&lunaFlags.output, "output", "o", "", "raw audio file (default from LUNA_OUTPUT_FILE)")
}

func runLuna(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	c := cfg()
	out := cmd.OutOrStdout()

	cc, err := dial(c.Luna.Server)
	if err != nil {
		return err
	}
	defer closeConn(cc)

	client := luna.New(cc, luna.WithMetrics(application.Metrics))
	version, err := client.Version(ctx)
	if err != nil {
		return fmt.Errorf("version: %w", err)
	}
	voices, err := client.ListVoices(ctx)
	if err != nil {
		return fmt.Errorf("list voices: %w", err)
	}
	l := listing{Version: map[string]string{"luna": version}}
	for _, v := range voices {
		l.Models = append(l.Models, model{ID: v.ID, Name: v.Name, Language: v.Language, SampleRate: v.SampleRate})
	}
	if err := printListing(out, "Luna", l); err != nil {
		return err
	}

	synth := &lunapb.SynthesizerConfig{VoiceID: c.Luna.VoiceID, Encoding: lunapb.EncodingRawLinear16}
	if lunaFlags.voice != "" {
		synth.VoiceID = lunaFlags.voice
	}
	output := c.Luna.OutputFile
	if lunaFlags.output != "" {
		output = lunaFlags.output
	}
	player := audio.NewPlayer(c.Luna.PlayCmd)

	in := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, promptStyle.Render("Luna>")+" ")
		if !in.Scan() {
			fmt.Fprintln(out)
			return in.Err()
		}
		if err := speak(cmd, client, player, synth, output, strings.TrimSpace(in.Text())); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintln(out, "Synthesis error:", err)
		}
	}
}

// speak plays one line of text and writes it to output. Empty text is a
// no-op.
func speak(cmd *cobra.Command, client *luna.Client, player *audio.Player, synth *lunapb.SynthesizerConfig, output, text string) error {
	if text == "" {
		return nil
	}
	out := cmd.OutOrStdout()

	var sinks []io.Writer
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		sinks = append(sinks, f)
	}
	if err := player.Start(); err != nil {
		return fmt.Errorf("start player: %w", err)
	}
	sinks = append(sinks, player)

	fmt.Fprintf(out, "Creating TTS stream using voice '%s'\n", synth.VoiceID)
	stats, err := client.SynthesizeStream(cmd.Context(), synth, text, sinks...)
	err = errors.Join(err, player.Stop())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "time to first samples: %f seconds\n", stats.TimeToFirstAudio.Seconds())
	fmt.Fprintf(out, "streaming synthesis took %f seconds\n\n", stats.Total.Seconds())
	return nil
}
