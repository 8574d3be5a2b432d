package ftp

import (
	"iter"
)

// FeatureInfo is one line of the FEAT reply
type FeatureInfo struct {
	Name   string
	Params string
}

func (f FeatureInfo) String() string {
	if f.Params == "" {
		return f.Name
	}
	return f.Name + " " + f.Params
}

// features returns a sequence over the given features, it can be ranged over any number of times
func features(list ...FeatureInfo) iter.Seq[FeatureInfo] {
	return func(yield func(FeatureInfo) bool) {
		for _, f := range list {
			if !yield(f) {
				return
			}
		}
	}
}

// noFeatures is the sequence of a handler that doesn't advertise anything
func noFeatures(func(FeatureInfo) bool) {}
