package assets

// Source names which image a group is resized from
const (
	SourceIcon       = "icon"
	SourceForeground = "foreground"
)

// KeyPlaceholder is replaced by the entry key when building output paths
const KeyPlaceholder = "{key}"

const (
	androidResDir = "android/app/src/main/res"
	iosIconSetDir = "ios/Runner/Assets.xcassets/AppIcon.appiconset"
)

// Entry maps an asset identifier (density bucket or file name) to a square pixel size
type Entry struct {
	Key  string `yaml:"key" json:"key"`
	Size int    `yaml:"size" json:"size"`
}

// AndroidLauncherSizes are the legacy launcher icon sizes per density bucket
var AndroidLauncherSizes = []Entry{
	{"mdpi", 48},
	{"hdpi", 72},
	{"xhdpi", 96},
	{"xxhdpi", 144},
	{"xxxhdpi", 192},
}

// AndroidAdaptiveSizes are the adaptive icon foreground layer sizes per density bucket
var AndroidAdaptiveSizes = []Entry{
	{"mdpi", 108},
	{"hdpi", 162},
	{"xhdpi", 216},
	{"xxhdpi", 324},
	{"xxxhdpi", 432},
}

// IOSSizes lists the AppIcon.appiconset files. The list repeats some file names
// (iPhone and iPad share them); Dedupe collapses the repeats.
var IOSSizes = []Entry{
	{"Icon-App-20x20@2x.png", 40},
	{"Icon-App-20x20@3x.png", 60},
	{"Icon-App-29x29@1x.png", 29},
	{"Icon-App-29x29@2x.png", 58},
	{"Icon-App-29x29@3x.png", 87},
	{"Icon-App-40x40@2x.png", 80},
	{"Icon-App-40x40@3x.png", 120},
	{"Icon-App-60x60@2x.png", 120},
	{"Icon-App-60x60@3x.png", 180},
	{"Icon-App-20x20@1x.png", 20},
	{"Icon-App-20x20@2x.png", 40},
	{"Icon-App-29x29@1x.png", 29},
	{"Icon-App-29x29@2x.png", 58},
	{"Icon-App-40x40@1x.png", 40},
	{"Icon-App-40x40@2x.png", 80},
	{"Icon-App-76x76@1x.png", 76},
	{"Icon-App-76x76@2x.png", 152},
	{"Icon-App-83.5x83.5@2x.png", 167},
	{"Icon-App-1024x1024@1x.png", 1024},
}

// Dedupe collapses entries sharing a key. The first occurrence keeps its
// position and the last occurrence provides the size.
func Dedupe(entries []Entry) []Entry {
	index := make(map[string]int, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if i, seen := index[e.Key]; seen {
			out[i].Size = e.Size
			continue
		}
		index[e.Key] = len(out)
		out = append(out, e)
	}
	return out
}
