package skills

import (
	"context"

	"nova/internal/content"
	"nova/internal/web"
)

// System is the desktop the skills act on. *system.Controller satisfies it.
type System interface {
	OpenApp(ctx context.Context, name string) error
	Screenshot(ctx context.Context) (string, error)
	SetVolume(ctx context.Context, percent int) error
	AdjustVolume(ctx context.Context, delta int) (int, error)
	SetMute(ctx context.Context, mute bool) error
	Lock(ctx context.Context) error
	Shutdown(ctx context.Context) error
	Restart(ctx context.Context) error
	PowerActionsAllowed() bool
}

// Web opens pages and looks things up. *web.Tools satisfies it.
type Web interface {
	Search(ctx context.Context, query string) (string, error)
	YouTube(ctx context.Context, query string) (string, error)
	OpenWebsite(ctx context.Context, site string) (string, error)
	Lookup(ctx context.Context, query string) (web.Article, error)
	Headlines(category string, count int) ([]string, string)
}

// Content answers from canned data. *content.Provider satisfies it.
type Content interface {
	Time() content.Result
	Date() content.Result
	DateTime() content.Result
	Quote() content.Result
	Fact() content.Result
	Weather(kind, city string) content.Result
	Status() content.Result
}
