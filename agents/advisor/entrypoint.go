package advisor

import (
	"fmt"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/voxmesh/voxmesh"
	"github.com/voxmesh/voxmesh/config"
	"github.com/voxmesh/voxmesh/metrics"
	"github.com/voxmesh/voxmesh/model"
	openaimodel "github.com/voxmesh/voxmesh/model/openai"
	redissession "github.com/voxmesh/voxmesh/session/redis"
	"github.com/voxmesh/voxmesh/worker"
)

// Prewarm runs once at process start, before any job is accepted.
func Prewarm(cfg *config.Config) error {
	if cfg.Provider.OpenAIAPIKey == "" {
		return fmt.Errorf("an OpenAI API key is required (set OPENAI_API_KEY)")
	}
	return nil
}

// Entrypoint serves one live platform session with the NexusGuide persona.
// Token usage and tool calls are aggregated and a summary is logged when the
// job shuts down.
func Entrypoint(job *worker.JobContext) error {
	cfg := job.Config()

	participant, err := job.WaitForParticipant(job.Context())
	if err != nil {
		return err
	}

	sessionID := job.Room() + ":" + participant.Identity
	collector := metrics.NewUsageCollector(sessionID, job.Logger())
	job.AddShutdownCallback(collector.LogSummary)

	llm := metrics.InstrumentModel(chatModel(cfg), collector)

	mesh := voxmesh.New(NewAdvisor(llm), func(o *voxmesh.Options) {
		o.Logger = job.Logger()
		o.UsageRecorder = collector
		if cfg.Redis.Addr != "" {
			o.SessionStore = redissession.NewStoreFromAddr(cfg.Redis.Addr)
		}
	})

	job.Logger().Info("advisor.session.start", "session_id", sessionID)

	return mesh.ServeLive(job.Context(), sessionID, job.Session())
}

func chatModel(cfg *config.Config) model.Model {
	// The advisor leans on broader gaming knowledge, so it runs the larger
	// chat model.
	withModel := openaimodel.WithModel(openaisdk.ChatModelGPT4o)
	if key := cfg.Provider.OpenAIAPIKey; key != "" {
		client := openaisdk.NewClient(option.WithAPIKey(key))
		return openaimodel.NewModelFromClient(&client, withModel)
	}
	return openaimodel.NewModel(withModel)
}
