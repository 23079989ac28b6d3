package testparser

import (
	"maps"
	"slices"
	"strings"
)

// Default format names.
const (
	DefaultLogFormat     = "unity"
	DefaultResultsFormat = "nunit3"
)

// Registry maps format identifiers to their parsers.
type Registry struct {
	logParsers     map[string]LogParser
	resultsParsers map[string]ResultsParser
}

// NewRegistry creates a new parser registry with all built-in parsers.
func NewRegistry() *Registry {
	r := &Registry{
		logParsers:     make(map[string]LogParser),
		resultsParsers: make(map[string]ResultsParser),
	}

	unityParser := &UnityLogParser{}
	nunitParser := &NUnitParser{}

	r.logParsers["unity"] = unityParser
	r.logParsers["editor"] = unityParser
	r.resultsParsers["nunit3"] = nunitParser
	r.resultsParsers["nunit"] = nunitParser

	return r
}

// GetLogParser returns the log parser for a format, or nil.
func (r *Registry) GetLogParser(format string) LogParser {
	return r.logParsers[strings.ToLower(format)]
}

// GetResultsParser returns the results parser for a format, or nil.
func (r *Registry) GetResultsParser(format string) ResultsParser {
	return r.resultsParsers[strings.ToLower(format)]
}

// LogFormats returns the registered log format names.
func (r *Registry) LogFormats() []string {
	return sortedKeys(r.logParsers)
}

// ResultsFormats returns the registered results format names.
func (r *Registry) ResultsFormats() []string {
	return sortedKeys(r.resultsParsers)
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
