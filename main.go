package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/GalacticGlum/glumbot/internal/adapters/classifier"
	"github.com/GalacticGlum/glumbot/internal/adapters/handler"
	"github.com/GalacticGlum/glumbot/internal/adapters/script"
	"github.com/GalacticGlum/glumbot/internal/adapters/twitch"
	"github.com/GalacticGlum/glumbot/internal/core/domain/command"
	"github.com/GalacticGlum/glumbot/internal/core/port"
	"github.com/GalacticGlum/glumbot/internal/core/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	log.Info().Msg("starting glumbot...")

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")

	viper.SetDefault("bot.prefix", "!")
	viper.SetDefault("bot.display_messages", true)
	viper.SetDefault("bot.display_own_messages", false)
	viper.SetDefault("bot.command_cooldown", "0s")
	viper.SetDefault("nlp.prefix", ">")
	viper.SetDefault("twitch.irc_url", twitch.DefaultServerURL)
	viper.SetDefault("twitch.helix_url", twitch.DefaultHelixURL)

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level

	switch viper.GetString("bot.log_level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	helix := twitch.NewHelix(
		viper.GetString("twitch.helix_url"),
		viper.GetString("twitch.client_id"),
		viper.GetString("twitch.token"))

	evaluator := service.NewEvaluator(helix)

	commandsFile := viper.GetString("commands.file")
	resolver := script.NewResolver(filepath.Dir(commandsFile), viper.GetString("commands.builtin_path"))

	registry := &command.Registry{}
	loader := service.NewLoader(registry, resolver, evaluator)

	report, err := loader.Load(commandsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load commands")
	}

	for _, diagnostic := range report.Diagnostics {
		if !diagnostic.Warning {
			log.Warn().
				Str("entry", diagnostic.Entry).
				Str("reason", diagnostic.Reason).
				Msg("command failed to load")
		}
	}

	cooldownInterval, err := time.ParseDuration(viper.GetString("bot.command_cooldown"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid command cooldown in config")
	}

	prefix := viper.GetString("bot.prefix")

	irc := twitch.NewIRC(
		viper.GetString("twitch.irc_url"),
		viper.GetString("twitch.token"),
		viper.GetString("twitch.nick"),
		viper.GetStringSlice("twitch.channels"),
		viper.GetBool("bot.display_messages"),
		viper.GetBool("bot.display_own_messages"))

	dispatcher := handler.NewDispatcher(registry, irc, service.NewCooldown(cooldownInterval), prefix)

	var clf port.Classifier
	useNLP := viper.GetBool("nlp.enabled")
	if useNLP {
		// Labels carry the dispatch prefix so a rerouted prediction is
		// itself a dispatchable message.
		clf = classifier.NewOpenRouter(
			viper.GetString("nlp.api_key"),
			viper.GetString("nlp.model"),
			registry.ListInvocations(prefix))
	}

	rerouter := service.NewRerouter(clf, dispatcher, viper.GetString("nlp.prefix"), useNLP)

	log.Info().Msg("bot listening")
	if err := irc.Run(ctx, rerouter); err != nil {
		log.Fatal().Err(err).Msg("chat connection failed")
	}

	log.Info().Msg("shutting down")
}
