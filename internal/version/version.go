package version

import (
	"fmt"
	"runtime"
	"time"
)

// Заполняются через -ldflags "-X jungle-server/internal/version.BuildDate=2026-03-01 ..."
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

const Service = "jungle-server"

// buildEpoch - день 0 нумерации сборок.
var buildEpoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// BuildInfo - метаданные сборки, отдаются на /version.
type BuildInfo struct {
	Service   string `json:"service"`
	BuildID   int    `json:"buildId"`
	BuildDate string `json:"buildDate,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Branch    string `json:"branch,omitempty"`
	CI        string `json:"ci,omitempty"`
	GoVersion string `json:"goVersion"`
	Error     string `json:"error,omitempty"`
}

// BuildID - номер дня сборки от buildEpoch.
func BuildID(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("build date is empty")
	}

	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid build date %q: %w", date, err)
	}
	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("build date %s is before epoch", date)
	}

	// Обе даты в UTC, поэтому деление часов на 24 точное
	return int(t.Sub(buildEpoch).Hours() / 24), nil
}

// Info собирает метаданные из переменных ldflags.
func Info() BuildInfo {
	info := BuildInfo{
		Service:   Service,
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		CI:        BuildCI,
		GoVersion: runtime.Version(),
	}

	id, err := BuildID(BuildDate)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.BuildID = id
	return info
}

// String - строка для лога при старте.
func String() string {
	info := Info()
	if info.Error != "" {
		return fmt.Sprintf("%s dev build (%s), %s", info.Service, info.Error, info.GoVersion)
	}
	return fmt.Sprintf("%s build %d (%s) commit[%s] branch[%s] ci[%s], %s",
		info.Service,
		info.BuildID,
		info.BuildDate,
		coalesce(info.Commit, "unknown"),
		coalesce(info.Branch, "unknown"),
		coalesce(info.CI, "local"),
		info.GoVersion,
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
