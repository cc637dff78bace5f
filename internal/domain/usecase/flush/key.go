package flush

import (
	"math/rand/v2"
	"strconv"
	"time"
)

const (
	suffixCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	SuffixLength  = 16

	folderLayout = "2006/01/02"
	stampLayout  = "20060102T1504Z"
)

// SuffixFunc returns a fresh random object name suffix
type SuffixFunc func() string

// NewSuffixFunc draws SuffixLength alphanumeric characters from intN.
// Pass rand.IntN for the process-wide source.
func NewSuffixFunc(intN func(n int) int) SuffixFunc {
	return func() string {
		suffix := make([]byte, SuffixLength)
		for i := range suffix {
			suffix[i] = suffixCharset[intN(len(suffixCharset))]
		}
		return string(suffix)
	}
}

// BuildKey lays out <folder>/<year>/<month>/<day>/<prefix>_<year><month><day>T<hour><minute>Z_<suffix>.<ext>
// from the UTC enqueue time with unpadded fields, e.g. logs/2024/3/5/events_202435T94Z_<suffix>.json.
// This is the layout existing archives are partitioned by. Prefixes are used as given.
func BuildKey(folderPrefix, objectPrefix string, sentAt time.Time, suffix, ext string) string {
	sentAt = sentAt.UTC()
	year := strconv.Itoa(sentAt.Year())
	month := strconv.Itoa(int(sentAt.Month()))
	day := strconv.Itoa(sentAt.Day())

	return folderPrefix + "/" + year + "/" + month + "/" + day + "/" +
		objectPrefix + "_" + year + month + day +
		"T" + strconv.Itoa(sentAt.Hour()) + strconv.Itoa(sentAt.Minute()) + "Z_" +
		suffix + "." + ext
}

// BuildPaddedKey is BuildKey with zero padded fields, e.g. logs/2024/03/05/events_20240305T0904Z_<suffix>.json
func BuildPaddedKey(folderPrefix, objectPrefix string, sentAt time.Time, suffix, ext string) string {
	sentAt = sentAt.UTC()
	return folderPrefix + "/" + sentAt.Format(folderLayout) + "/" +
		objectPrefix + "_" + sentAt.Format(stampLayout) + "_" + suffix + "." + ext
}

// KeyBuilder binds the configured prefixes and layout to a suffix source
type KeyBuilder struct {
	folderPrefix string
	objectPrefix string
	suffix       SuffixFunc
	layout       func(folderPrefix, objectPrefix string, sentAt time.Time, suffix, ext string) string
}

// NewKeyBuilder uses BuildKey, or BuildPaddedKey when zeroPad is set
func NewKeyBuilder(folderPrefix, objectPrefix string, suffix SuffixFunc, zeroPad bool) *KeyBuilder {
	if suffix == nil {
		suffix = NewSuffixFunc(rand.IntN)
	}
	layout := BuildKey
	if zeroPad {
		layout = BuildPaddedKey
	}
	return &KeyBuilder{
		folderPrefix: folderPrefix,
		objectPrefix: objectPrefix,
		suffix:       suffix,
		layout:       layout,
	}
}

func (b *KeyBuilder) Build(sentAt time.Time, ext string) string {
	return b.layout(b.folderPrefix, b.objectPrefix, sentAt, b.suffix(), ext)
}
