package fonts

import "os"

// DefaultSources lists the preferred families in priority order, at their
// usual locations on a Debian-style system: EB Garamond, then a Times-like
// serif, then DejaVu, then Noto.
func DefaultSources() []Source {
	return []Source{
		{
			Name: "EBGaramond",
			Files: map[Style]string{
				Regular: "/usr/share/fonts/truetype/ebgaramond/EBGaramond12-Regular.ttf",
				Bold:    "/usr/share/fonts/truetype/ebgaramond/EBGaramond12-Bold.ttf",
				Italic:  "/usr/share/fonts/truetype/ebgaramond/EBGaramond12-Italic.ttf",
			},
		},
		{
			Name: "Liberation Serif",
			Files: map[Style]string{
				Regular: "/usr/share/fonts/truetype/liberation/LiberationSerif-Regular.ttf",
				Bold:    "/usr/share/fonts/truetype/liberation/LiberationSerif-Bold.ttf",
				Italic:  "/usr/share/fonts/truetype/liberation/LiberationSerif-Italic.ttf",
			},
		},
		{
			Name: "DejaVu Serif",
			Files: map[Style]string{
				Regular: "/usr/share/fonts/truetype/dejavu/DejaVuSerif.ttf",
				Bold:    "/usr/share/fonts/truetype/dejavu/DejaVuSerif-Bold.ttf",
				Italic:  "/usr/share/fonts/truetype/dejavu/DejaVuSerif-Italic.ttf",
			},
		},
		{
			Name: "Noto Serif",
			Files: map[Style]string{
				Regular: "/usr/share/fonts/truetype/noto/NotoSerif-Regular.ttf",
				Bold:    "/usr/share/fonts/truetype/noto/NotoSerif-Bold.ttf",
				Italic:  "/usr/share/fonts/truetype/noto/NotoSerif-Italic.ttf",
			},
		},
	}
}

// Discover filters the default sources down to the families whose regular
// file exists on this machine, preserving priority order.
func Discover() []Source {
	var out []Source
	for _, src := range DefaultSources() {
		if _, err := os.Stat(src.Files[Regular]); err == nil {
			out = append(out, src)
		}
	}
	return out
}

// ByName returns the default source with the given name, or false.
func ByName(name string) (Source, bool) {
	for _, src := range DefaultSources() {
		if src.Name == name {
			return src, true
		}
	}
	return Source{}, false
}
