package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Gemini       Gemini
	Voice        Voice
	GeminiApiKey string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Gemini struct {
	QuestionModel string
	ScoringModel  string
}

type Voice struct {
	LanguageCode         string
	Name                 string
	ListenTimeoutSeconds int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GEMINI_QUESTION_MODEL", "gemini-1.5-flash")
	viper.SetDefault("GEMINI_SCORING_MODEL", "gemini-1.5-flash")
	viper.SetDefault("VOICE_LANGUAGE", "en-US")
	viper.SetDefault("VOICE_NAME", "en-US-Standard-C")
	viper.SetDefault("VOICE_LISTEN_TIMEOUT_SECONDS", 30)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.QuestionModel = viper.GetString("GEMINI_QUESTION_MODEL")
	config.Gemini.ScoringModel = viper.GetString("GEMINI_SCORING_MODEL")

	config.Voice.LanguageCode = viper.GetString("VOICE_LANGUAGE")
	config.Voice.Name = viper.GetString("VOICE_NAME")
	config.Voice.ListenTimeoutSeconds = viper.GetInt("VOICE_LISTEN_TIMEOUT_SECONDS")

	log.Info().Str("port", config.Server.Port).Str("database", config.Database.Name).Msg("Config loaded")
	return &config, nil
}
