package utils

const (
	ToolName       = "tunequeue"
	UnknownTitle   = "Unknown"
	ConfigFile     = "config.toml"
	HistoryFile    = "download_history.json"
	LanguagesDir   = "languages"
	LocalBinDir    = ".tunequeue-bin"
	TimestampFmt   = "2006-01-02 15:04:05.999999999 -07:00"
	SocketTimeout  = "15"
	AudioFormat    = "mp3"
	OutputTemplate = "%(title)s.%(ext)s"
	HistoryShown   = 10
)
