package advisor

import (
	"fmt"
	"strings"

	"github.com/voxmesh/voxmesh/core"
	"github.com/voxmesh/voxmesh/tool"
)

// GameRecommendation is one canned entry returned by recommend_games. A
// production deployment would query a games catalog API.
type GameRecommendation struct {
	Title       string   `json:"title"`
	Genre       string   `json:"genre"`
	Description string   `json:"description"`
	Platforms   []string `json:"platforms"`
	Multiplayer bool     `json:"multiplayer"`
	Rating      float64  `json:"rating"`
}

var recommendations = []GameRecommendation{
	{
		Title:       "Stellar Odyssey",
		Genre:       "Space RPG",
		Description: "An immersive open-world space exploration game with deep character progression",
		Platforms:   []string{"PC", "PlayStation", "Xbox"},
		Multiplayer: true,
		Rating:      9.2,
	},
	{
		Title:       "Neon Breach",
		Genre:       "Cyberpunk FPS",
		Description: "Fast-paced shooter set in a dystopian future with unique hacking mechanics",
		Platforms:   []string{"PC", "PlayStation", "Xbox"},
		Multiplayer: true,
		Rating:      8.8,
	},
	{
		Title:       "Echo Realm",
		Genre:       "Puzzle Adventure",
		Description: "Mind-bending puzzle game where sound and music control the environment",
		Platforms:   []string{"PC", "Switch", "Mobile"},
		Multiplayer: false,
		Rating:      9.0,
	},
}

type recommendGamesArgs struct {
	Genre       string `json:"genre,omitempty" description:"The genre of games the user is interested in (e.g. 'FPS', 'RPG', 'Strategy')"`
	Platform    string `json:"platform,omitempty" description:"The gaming platform (e.g. 'PC', 'PlayStation', 'Xbox', 'Switch', 'Mobile')"`
	Multiplayer *bool  `json:"multiplayer,omitempty" description:"Whether the user wants multiplayer games"`
	SimilarTo   string `json:"similar_to,omitempty" description:"A game the user already enjoys, to find similar recommendations"`
}

func newRecommendGamesTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"recommend_games",
		"Recommend video games based on the user's preferences.",
		recommendGamesArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			genre, _ := tool.StringArg(args, "genre")
			platform, _ := tool.StringArg(args, "platform")
			multiplayer, hasMultiplayer := tool.BoolArg(args, "multiplayer")

			tc.Logger().Info("advisor.recommend_games",
				"genre", genre, "platform", platform, "multiplayer", multiplayer)

			matches := recommendations
			if platform != "" || hasMultiplayer {
				matches = nil
				for _, rec := range recommendations {
					if platform != "" && !onPlatform(rec, platform) {
						continue
					}
					if hasMultiplayer && rec.Multiplayer != multiplayer {
						continue
					}
					matches = append(matches, rec)
				}
			}

			return map[string]any{
				"recommendations": matches,
				"notes":           "These recommendations are based on your preferences. I can provide more specific suggestions if you tell me more about what you enjoy in games.",
			}, nil
		},
	)
}

func onPlatform(rec GameRecommendation, platform string) bool {
	for _, p := range rec.Platforms {
		if strings.EqualFold(p, platform) {
			return true
		}
	}
	return false
}

type provideStrategyArgs struct {
	Game              string `json:"game" description:"The name of the game the user needs help with"`
	SpecificChallenge string `json:"specific_challenge,omitempty" description:"A specific level, boss, achievement or challenge they're stuck on"`
	CharacterClass    string `json:"character_class,omitempty" description:"If applicable, the character class or build they're using"`
	Difficulty        string `json:"difficulty,omitempty" description:"The difficulty level they're playing on"`
}

func newProvideStrategyTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"provide_strategy",
		"Provide gaming strategies and tips for a specific game or challenge.",
		provideStrategyArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			game, ok := tool.StringArg(args, "game")
			if !ok {
				return nil, fmt.Errorf("missing required field 'game'")
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Here's a strategic approach for %s", game)
			if v, ok := tool.StringArg(args, "specific_challenge"); ok {
				fmt.Fprintf(&b, " when facing %s", v)
			}
			if v, ok := tool.StringArg(args, "character_class"); ok {
				fmt.Fprintf(&b, " using %s", v)
			}
			if v, ok := tool.StringArg(args, "difficulty"); ok {
				fmt.Fprintf(&b, " on %s difficulty", v)
			}
			b.WriteString(":\n\n" +
				"1. Start by analyzing the pattern of the challenge\n" +
				"2. Ensure your equipment is optimized for this specific encounter\n" +
				"3. Consider adjusting your timing rather than being aggressive\n" +
				"4. Look for environmental advantages you might have missed")

			tc.Logger().Info("advisor.provide_strategy", "game", game)

			return map[string]any{
				"game":     game,
				"strategy": b.String(),
				"additional_tips": []string{
					"Remember that patience is often key to overcoming difficult challenges",
					"The community has found that upgrading your defensive capabilities helps significantly",
					"There might be optional quests that provide items specifically designed for this challenge",
				},
			}, nil
		},
	)
}

type troubleshootArgs struct {
	Hardware       string   `json:"hardware" description:"The gaming hardware experiencing issues (console name, PC specs, etc.)"`
	Game           string   `json:"game,omitempty" description:"The specific game having problems, if applicable"`
	Symptoms       string   `json:"symptoms,omitempty" description:"Description of the technical issues being experienced"`
	TriedSolutions []string `json:"tried_solutions,omitempty" description:"Solutions the user has already attempted"`
}

func newTroubleshootTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"troubleshoot_technical_issue",
		"Help troubleshoot technical gaming issues on the user's hardware.",
		troubleshootArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			hardware, ok := tool.StringArg(args, "hardware")
			if !ok {
				return nil, fmt.Errorf("missing required field 'hardware'")
			}

			symptoms, _ := tool.StringArg(args, "symptoms")
			tc.Logger().Info("advisor.troubleshoot", "hardware", hardware, "symptoms", symptoms)

			return map[string]any{
				"possible_causes": []string{
					"Outdated drivers or system software",
					"Insufficient system resources for game requirements",
					"Corrupted game files or installation",
					"Hardware compatibility issues",
					"Network connectivity problems (for online features)",
				},
				"recommended_solutions": []string{
					"Update all drivers and system software to the latest version",
					"Verify and repair game files through the launcher/store",
					"Check for background applications consuming resources",
					"Adjust in-game graphics settings to better match your hardware",
					"Try a clean reinstallation if other solutions don't work",
				},
				"preventative_tips": []string{
					"Regularly update drivers and system software",
					"Monitor system temperatures during gaming sessions",
					"Keep storage drives uncrowded with at least 15-20% free space",
					"Consider hardware upgrades if you're frequently encountering performance issues",
				},
			}, nil
		},
	)
}
