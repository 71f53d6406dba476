package realestate

import (
	"fmt"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/voxmesh/voxmesh"
	"github.com/voxmesh/voxmesh/config"
	"github.com/voxmesh/voxmesh/model"
	openaimodel "github.com/voxmesh/voxmesh/model/openai"
	redissession "github.com/voxmesh/voxmesh/session/redis"
	"github.com/voxmesh/voxmesh/speech"
	openaispeech "github.com/voxmesh/voxmesh/speech/openai"
	"github.com/voxmesh/voxmesh/worker"
)

// Entrypoint serves one live platform session with the real estate team.
func Entrypoint(job *worker.JobContext) error {
	cfg := job.Config()

	team, err := NewTeam(chatModel(cfg))
	if err != nil {
		return fmt.Errorf("failed to assemble personas: %w", err)
	}

	mesh := voxmesh.New(team, func(o *voxmesh.Options) {
		o.Logger = job.Logger()
		o.UserDataFactory = func(string) any { return NewUserData() }
		o.Synthesizer = synthesizer(cfg)
		o.Recognizer = recognizer(cfg)
		if cfg.Redis.Addr != "" {
			o.SessionStore = redissession.NewStoreFromAddr(cfg.Redis.Addr)
		}
	})

	participant, err := job.WaitForParticipant(job.Context())
	if err != nil {
		return err
	}

	sessionID := job.Room() + ":" + participant.Identity
	job.Logger().Info("realestate.session.start", "session_id", sessionID)

	return mesh.ServeLive(job.Context(), sessionID, job.Session())
}

func chatModel(cfg *config.Config) model.Model {
	withModel := openaimodel.WithModel(openaisdk.ChatModelGPT4oMini)
	if key := cfg.Provider.OpenAIAPIKey; key != "" {
		client := openaisdk.NewClient(option.WithAPIKey(key))
		return openaimodel.NewModelFromClient(&client, withModel)
	}
	return openaimodel.NewModel(withModel)
}

// synthesizer renders persona replies locally so each specialist keeps its own
// voice regardless of the platform's default synthesis.
func synthesizer(cfg *config.Config) speech.Synthesizer {
	if key := cfg.Provider.OpenAIAPIKey; key != "" {
		client := openaisdk.NewClient(option.WithAPIKey(key))
		return openaispeech.NewSynthesizerFromClient(&client)
	}
	return openaispeech.NewSynthesizer()
}

// recognizer transcribes caller audio for rooms without platform transcription.
func recognizer(cfg *config.Config) speech.Recognizer {
	if key := cfg.Provider.OpenAIAPIKey; key != "" {
		client := openaisdk.NewClient(option.WithAPIKey(key))
		return openaispeech.NewRecognizerFromClient(&client)
	}
	return openaispeech.NewRecognizer()
}
