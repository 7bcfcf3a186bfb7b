package outline

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"pahkat/pkg/repo"
)

const (
	categoryPrefix  = "cat:"
	languagePrefix  = "lang:"
	unknownCategory = "cat:unknown"
	// NoLanguage is the ISO 639 code for packages without linguistic content.
	NoLanguage = "zxx"
)

// Options controls how descriptors are resolved.
type Options struct {
	// Platform is matched against release targets, e.g. "macos" or "windows".
	Platform string
	// Language is the display language for category names.
	Language string
}

// Build groups the descriptors of one repository. Descriptors whose last
// release has no target for opts.Platform are skipped.
func Build(r Repository, opts Options) *Outline {
	o := newOutline(r)
	if r.Repo == nil {
		return o
	}

	id := r.ID()
	title := cases.Title(displayTag(opts.Language))

	for _, d := range r.Repo.Descriptors() {
		p, ok := resolve(r.Repo, d, opts.Platform)
		if !ok {
			continue
		}

		switch r.Filter {
		case FilterLanguage:
			langs := languageCodes(d)
			for _, code := range langs {
				o.add(Group{ID: code, Value: languageName(code), Repo: id}, p)
			}
		default:
			cat := categoryID(d)
			o.add(Group{ID: cat, Value: categoryName(title, cat), Repo: id}, p)
		}
	}

	o.seal()
	return o
}

// resolve picks the last release and its platform target.
func resolve(r *repo.LoadedRepository, d repo.Descriptor, platform string) (Package, bool) {
	release := d.LastRelease()
	if release == nil {
		return Package{}, false
	}
	target := release.TargetFor(platform)
	if target == nil {
		return Package{}, false
	}

	key := r.PackageKey(d)
	return Package{
		Key:        key,
		Descriptor: d,
		Release:    release,
		Target:     target,
		Status:     r.Status(key),
	}, true
}

func categoryID(d repo.Descriptor) string {
	if tags := d.TagsWithPrefix(categoryPrefix); len(tags) > 0 {
		return tags[0]
	}
	return unknownCategory
}

func categoryName(title cases.Caser, id string) string {
	name := strings.TrimPrefix(id, categoryPrefix)
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return title.String(name)
}

func languageCodes(d repo.Descriptor) []string {
	tags := d.TagsWithPrefix(languagePrefix)
	if len(tags) == 0 {
		return []string{NoLanguage}
	}
	codes := make([]string, 0, len(tags))
	for _, tag := range tags {
		codes = append(codes, strings.TrimPrefix(tag, languagePrefix))
	}
	return codes
}

// languageName returns the autonym for a language code.
func languageName(code string) string {
	if code == NoLanguage {
		return "—"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return code
}

func displayTag(lang string) language.Tag {
	if lang == "" {
		return language.English
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	return tag
}
