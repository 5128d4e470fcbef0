package grpcapi

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"speech-demo-clients/proto/diathekepb"
)

// model is a dialog model served by the mock Diatheke service.
type model struct {
	info     *diathekepb.ModelInfo
	wakeword bool
}

var dialogModels = []model{
	{
		info: &diathekepb.ModelInfo{
			ID:            "demo",
			Name:          "Text",
			Language:      "en_US",
			ASRSampleRate: 16000,
			TTSSampleRate: 22050,
		},
	},
	{
		info: &diathekepb.ModelInfo{
			ID:            "1",
			Name:          "Voice assistant",
			Language:      "en_US",
			ASRSampleRate: 16000,
			TTSSampleRate: 22050,
		},
		wakeword: true,
	},
}

func findModel(id string) (model, bool) {
	for _, m := range dialogModels {
		if m.info.ID == id {
			return m, true
		}
	}
	return model{}, false
}

func reply(text string) *diathekepb.ActionData {
	return &diathekepb.ActionData{Reply: &diathekepb.ReplyAction{Text: text, LunaModel: defaultVoice}}
}

func input(wakeword bool) *diathekepb.ActionData {
	return &diathekepb.ActionData{Input: &diathekepb.WaitForUserAction{
		Immediate:        !wakeword,
		RequiresWakeWord: wakeword,
	}}
}

func command(id, intent string, params map[string]string) *diathekepb.ActionData {
	return &diathekepb.ActionData{Command: &diathekepb.CommandAction{
		ID:              id,
		InputParameters: params,
		NLUResult: &diathekepb.NLUResult{
			Intent:     intent,
			Confidence: 0.9,
			Entities:   params,
		},
	}}
}

// welcome is the action list of a new session.
func welcome(m model) []*diathekepb.ActionData {
	return []*diathekepb.ActionData{
		reply("Welcome to the " + m.info.Name + " demo."),
		input(m.wakeword),
	}
}

// respond picks the next actions for user text. Saying goodbye ends the
// dialog with a reply and no further input.
func respond(m model, text string) []*diathekepb.ActionData {
	t := strings.ToLower(strings.TrimSpace(text))
	switch {
	case t == "":
		return []*diathekepb.ActionData{reply("Sorry, I did not catch that."), input(false)}
	case strings.Contains(t, "bye") || strings.Contains(t, "thank you"):
		return []*diathekepb.ActionData{reply("Goodbye!")}
	case strings.Contains(t, "light"):
		return []*diathekepb.ActionData{
			command("toggle_light", "light_on", map[string]string{"room": "living room"}),
		}
	case strings.Contains(t, "timer"):
		return []*diathekepb.ActionData{
			command("set_timer", "timer", map[string]string{"duration": "10m"}),
		}
	case strings.Contains(t, "weather"):
		return []*diathekepb.ActionData{reply("It will be sunny tomorrow."), input(m.wakeword)}
	case strings.Contains(t, "transcribe") || strings.Contains(t, "note"):
		return []*diathekepb.ActionData{
			reply("Go ahead, I am listening."),
			{Transcribe: &diathekepb.TranscribeAction{
				ID:              uuid.NewString(),
				CubicModelID:    defaultCubicModel,
				DiathekeModelID: m.info.ID,
			}},
			reply("Your note is saved."),
			input(m.wakeword),
		}
	default:
		return []*diathekepb.ActionData{reply("You said: " + text), input(m.wakeword)}
	}
}

func commandDone(m model, res *diathekepb.CommandResult) []*diathekepb.ActionData {
	if res.Error != "" {
		return []*diathekepb.ActionData{reply(fmt.Sprintf("Command %s failed: %s", res.ID, res.Error)), input(false)}
	}
	return []*diathekepb.ActionData{reply(fmt.Sprintf("Command %s is done.", res.ID)), input(m.wakeword)}
}
