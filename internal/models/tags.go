package models

import "strings"

type Tag string

const (
	TagGlassBanger  Tag = "GLASS_BANGER"
	TagFloorGeneral Tag = "FLOOR_GENERAL"
	TagRebounder    Tag = "REBOUNDER"
	TagPlaymaker    Tag = "PLAYMAKER"
	TagScorer       Tag = "SCORER"
	TagShooter      Tag = "SHOOTER"
	TagVolume       Tag = "VOLUME"
	TagBench        Tag = "BENCH"
	TagSpark        Tag = "SPARK"
	TagRunner       Tag = "RUNNER"
	TagTransition   Tag = "TRANSITION"
	TagAthletic     Tag = "ATHLETIC"
	TagYoung        Tag = "YOUNG"
	TagVeteran      Tag = "VETERAN"
)

// Tags is an ordered, duplicate-free tag list.
type Tags []Tag

func (t Tags) Has(tag Tag) bool {
	for _, x := range t {
		if x == tag {
			return true
		}
	}
	return false
}

func (t Tags) HasAny(tags ...Tag) bool {
	for _, tag := range tags {
		if t.Has(tag) {
			return true
		}
	}
	return false
}

// ContainsAny reports whether any tag contains one of the fragments, so
// caller-supplied tags such as "PASS_FIRST" still match "PASS".
func (t Tags) ContainsAny(fragments ...string) bool {
	for _, x := range t {
		for _, f := range fragments {
			if strings.Contains(string(x), f) {
				return true
			}
		}
	}
	return false
}

func (t Tags) Add(tags ...Tag) Tags {
	for _, tag := range tags {
		tag = Tag(strings.ToUpper(strings.TrimSpace(string(tag))))
		if tag != "" && !t.Has(tag) {
			t = append(t, tag)
		}
	}
	return t
}
