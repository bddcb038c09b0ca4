package glyph

// Curated reference sets. Membership biases weighted selection for the
// matching tag; glyphs outside every set are still eligible everywhere.
var (
	eyeSet = newSet(
		"👁️", "👀", "⚫", "⚪", "🔵", "🟦", "🟢", "🟥", "🟡", "🟣", "🔘", "🧿",
	)
	bubbleSet = newSet(
		"🫧", "💦", "✨", "⭐", "🌟", "💫", "❇️", "✳️",
	)
	accentSet = newSet(
		"✨", "🌟", "💫", "❇️", "✳️", "🌀", "💥", "💢", "🌈",
	)
	propSet = newSet(
		"🪨", "🗿", "👟", "⚓", "🏺", "🪦", "💍", "🚨", "📦", "🔱",
	)
	handSet = newSet(
		"🖐️", "✋", "🤚", "🫱", "🫲", "🦾", "🦿", "🦴", "🫀",
	)
)

// hazardPool joins the prop candidates when the chaos add-on is enabled.
var hazardPool = []string{
	"🪨", "🗿", "👟", "⚓", "🧯", "🪣", "🪙", "🧊", "🧰", "📦", "❗", "❕", "⚠️", "🦴", "🪵", "🪝",
}

// defaultPool substitutes for an empty input and augments non-strict pools.
var defaultPool = []string{
	"🐟", "🐠", "🐡", "🪼", "🦀", "🦐", "🪸", "🫧", "✨", "🪨",
}

// showcase is the list the random-selection helper draws from.
var showcase = []string{
	"🖐️", "✋", "🤚", "🫱", "🫲", "🧿", "👁️", "👀",
	"🐟", "🐠", "🐡", "🦈", "🐙", "🪼", "🦐", "🦀", "🦑", "🪸",
	"🫧", "💦", "✨", "⭐", "🌟", "💫", "❇️", "✳️",
	"🪨", "🗿", "⚓", "🏺", "🪦", "💎", "👟", "🥽",
	"🪵", "🪝", "🧊", "🧰", "🧯", "📦", "🔱", "⚠️", "❗", "❕",
	"🌀", "🌈", "🔵", "🟦", "🟢", "🟥", "🟡", "🟣", "⚫", "⚪",
	"🥳", "😀", "😺", "😈", "👻", "🤖", "👽",
}

type set map[string]struct{}

func newSet(items ...string) set {
	s := make(set, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s set) has(g string) bool {
	_, ok := s[g]
	return ok
}
