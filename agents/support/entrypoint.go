package support

import (
	"fmt"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/voxmesh/voxmesh"
	"github.com/voxmesh/voxmesh/config"
	"github.com/voxmesh/voxmesh/model"
	openaimodel "github.com/voxmesh/voxmesh/model/openai"
	redissession "github.com/voxmesh/voxmesh/session/redis"
	"github.com/voxmesh/voxmesh/worker"
)

// Entrypoint serves one live platform session with the support team.
func Entrypoint(job *worker.JobContext) error {
	cfg := job.Config()

	team, err := NewTeam(chatModel(cfg))
	if err != nil {
		return fmt.Errorf("failed to assemble personas: %w", err)
	}

	mesh := voxmesh.New(team, func(o *voxmesh.Options) {
		o.Logger = job.Logger()
		o.UserDataFactory = func(string) any { return NewUserData() }
		if cfg.Redis.Addr != "" {
			o.SessionStore = redissession.NewStoreFromAddr(cfg.Redis.Addr)
		}
	})

	participant, err := job.WaitForParticipant(job.Context())
	if err != nil {
		return err
	}

	sessionID := job.Room() + ":" + participant.Identity
	job.Logger().Info("support.session.start", "session_id", sessionID)

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
