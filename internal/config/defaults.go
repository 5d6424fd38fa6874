package config

const (
	defaultDataDir              = "~/.local/share/studivio"
	defaultLogDir               = "~/.local/share/studivio/logs"
	defaultTempDir              = "~/.local/share/studivio/tmp"
	defaultAPIBind              = "127.0.0.1:5000"
	defaultAllowedOrigin        = "http://localhost:5173"
	defaultAPIReadTimeout       = 30
	defaultAPIWriteTimeout      = 600
	defaultAccessTokenMinutes   = 15
	defaultRevocationBackend    = "sqlite"
	defaultPurgeIntervalMinutes = 30
	defaultLLMBaseURL           = "https://api.openai.com/v1/chat/completions"
	defaultLLMModel             = "gpt-4-1106-preview"
	defaultLLMTitle             = "Studivio"
	defaultLLMTimeoutSeconds    = 120
	defaultLLMMaxTokens         = 1000
	defaultLLMMaxChunkWords     = 1024
	defaultAssemblyAIBaseURL    = "https://api.assemblyai.com"
	defaultAssemblyAIPoll       = 3
	defaultAssemblyAITimeout    = 900
	defaultYouTubeTranscriptURL = "https://www.youtube.com/api/timedtext"
	defaultYouTubeTimeout       = 20
	defaultMaxPDFMB             = 25
	defaultMaxAudioMB           = 50
	defaultRedisAddr            = "127.0.0.1:6379"
	defaultNotifyTimeout        = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

var (
	defaultAudioExtensions  = []string{"mp3", "wav", "m4a", "mp4", "webm"}
	defaultYouTubeLanguages = []string{"en", "es", "ko"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			TempDir: defaultTempDir,
		},
		API: API{
			Bind:                defaultAPIBind,
			AllowedOrigins:      []string{defaultAllowedOrigin},
			ReadTimeoutSeconds:  defaultAPIReadTimeout,
			WriteTimeoutSeconds: defaultAPIWriteTimeout,
		},
		Auth: Auth{
			AccessTokenMinutes:   defaultAccessTokenMinutes,
			RevocationBackend:    defaultRevocationBackend,
			PurgeIntervalMinutes: defaultPurgeIntervalMinutes,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			MaxTokens:      defaultLLMMaxTokens,
			MaxChunkWords:  defaultLLMMaxChunkWords,
		},
		AssemblyAI: AssemblyAI{
			BaseURL:             defaultAssemblyAIBaseURL,
			PollIntervalSeconds: defaultAssemblyAIPoll,
			TimeoutSeconds:      defaultAssemblyAITimeout,
		},
		YouTube: YouTube{
			TranscriptURL:  defaultYouTubeTranscriptURL,
			Languages:      append([]string(nil), defaultYouTubeLanguages...),
			TimeoutSeconds: defaultYouTubeTimeout,
		},
		Uploads: Uploads{
			MaxPDFMB:        defaultMaxPDFMB,
			MaxAudioMB:      defaultMaxAudioMB,
			AudioExtensions: append([]string(nil), defaultAudioExtensions...),
		},
		Redis: Redis{
			Addr: defaultRedisAddr,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			NoteReady:      true,
			Failures:       true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
