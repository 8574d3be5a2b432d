package ftp

import (
	"context"
	"iter"
	"sort"
	"strings"
)

// CommandHandler implements one or more verbs of the control channel.
//
// SupportedFeatures returns the features the handler adds to the FEAT reply, it has no side
// effects and can be called without a connection.
//
// Process answers a single command. Expected conditions like a missing argument or a file that
// doesn't exist are returned as a Response, the error is only for backend failures and
// cancellation.
type CommandHandler interface {
	Names() []string
	SupportedFeatures() iter.Seq[FeatureInfo]
	Process(ctx context.Context, s *Session, cmd Command) (Response, error)
}

// anonymousHandler is implemented by handlers that can be used before login
type anonymousHandler interface {
	AllowAnonymous() bool
}

// anonymous is embedded by the handlers that don't need a logged in user
type anonymous struct{}

func (anonymous) AllowAnonymous() bool { return true }

// handlers maps every verb to its handler, it is filled once by init and only read afterwards
var handlers map[string]CommandHandler

func init() {
	handlers = make(map[string]CommandHandler)
	for _, h := range []CommandHandler{
		UserHandler{},
		PassHandler{},
		SystHandler{},
		FeatHandler{},
		OptsHandler{},
		NoopHandler{},
		QuitHandler{},
		PwdHandler{},
		CwdHandler{},
		CdupHandler{},
		MdtmHandler{},
		MfmtHandler{},
	} {
		for _, name := range h.Names() {
			handlers[strings.ToUpper(name)] = h
		}
	}
}

// LookupHandler returns the handler of the verb, verbs are case insensitive
func LookupHandler(verb string) (CommandHandler, bool) {
	h, ok := handlers[strings.ToUpper(verb)]
	return h, ok
}

// Verbs returns all registered verbs sorted
func Verbs() []string {
	verbs := make([]string, 0, len(handlers))
	for verb := range handlers {
		verbs = append(verbs, verb)
	}
	sort.Strings(verbs)
	return verbs
}

// SupportedFeatures collects the features of all registered handlers, sorted by name
func SupportedFeatures() []FeatureInfo {
	seen := make(map[string]FeatureInfo)
	for _, h := range handlers {
		for f := range h.SupportedFeatures() {
			seen[f.String()] = f
		}
	}
	result := make([]FeatureInfo, 0, len(seen))
	for _, f := range seen {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].Params < result[j].Params
	})
	return result
}
