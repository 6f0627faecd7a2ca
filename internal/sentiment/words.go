package sentiment

// defaultWords holds polarity values for common English news vocabulary.
var defaultWords = map[string]float64{
	// favourable
	"good": 0.7, "great": 0.8, "excellent": 1.0, "best": 1.0, "better": 0.5,
	"positive": 0.23, "happy": 0.8, "glad": 0.5, "love": 0.5, "loved": 0.7,
	"wonderful": 1.0, "amazing": 0.6, "awesome": 1.0, "brilliant": 0.9, "beautiful": 0.85,
	"nice": 0.6, "fine": 0.42, "fantastic": 0.4, "perfect": 1.0, "strong": 0.43,
	"stronger": 0.4, "success": 0.3, "successful": 0.75, "win": 0.8, "wins": 0.8,
	"won": 0.5, "winning": 0.5, "gain": 0.4, "gains": 0.4, "growth": 0.3,
	"grow": 0.2, "rise": 0.2, "rising": 0.2, "boost": 0.4, "improve": 0.4,
	"improved": 0.4, "improvement": 0.4, "record": 0.2, "hope": 0.3, "hopeful": 0.5,
	"optimistic": 0.5, "safe": 0.5, "secure": 0.4, "stable": 0.3, "peace": 0.5,
	"peaceful": 0.5, "agree": 0.3, "agreement": 0.3, "support": 0.3, "welcome": 0.8,
	"celebrate": 0.6, "celebrated": 0.5, "innovative": 0.5, "leading": 0.3, "popular": 0.6,
	"top": 0.5, "free": 0.4, "clean": 0.37, "fair": 0.7, "important": 0.4,
	"interesting": 0.5, "exciting": 0.3, "easy": 0.43, "effective": 0.6, "healthy": 0.5,
	"honest": 0.6, "kind": 0.6, "proud": 0.8, "rich": 0.38, "smart": 0.21,
	"benefit": 0.3, "benefits": 0.3, "progress": 0.4, "recovery": 0.4, "rally": 0.5,
	"surge": 0.4, "upbeat": 0.5, "thriving": 0.6, "praise": 0.6, "praised": 0.6,
	"new": 0.14, "first": 0.25, "major": 0.06, "large": 0.21, "real": 0.2,
	"special": 0.36, "true": 0.35, "sure": 0.5, "able": 0.5, "clear": 0.1,

	// unfavourable
	"bad": -0.7, "worse": -0.4, "worst": -1.0, "terrible": -1.0, "awful": -1.0,
	"horrible": -1.0, "poor": -0.4, "sad": -0.5, "angry": -0.5, "hate": -0.8,
	"negative": -0.3, "wrong": -0.5, "fail": -0.5, "fails": -0.5, "failed": -0.5,
	"failure": -0.4, "loss": -0.4, "losses": -0.4, "lose": -0.4, "lost": -0.3,
	"decline": -0.4, "declines": -0.4, "fall": -0.2, "falls": -0.2, "fell": -0.2,
	"drop": -0.2, "drops": -0.2, "crash": -0.6, "plunge": -0.6, "slump": -0.5,
	"crisis": -0.6, "war": -0.5, "attack": -0.5, "attacks": -0.5, "killed": -0.7,
	"kill": -0.7, "dead": -0.2, "death": -0.5, "deadly": -0.6, "violent": -0.8,
	"violence": -0.7, "threat": -0.4, "threats": -0.4, "dangerous": -0.6, "danger": -0.5,
	"fear": -0.5, "fears": -0.5, "afraid": -0.6, "worried": -0.5, "worry": -0.4,
	"concern": -0.2, "concerns": -0.2, "risk": -0.3, "risky": -0.5, "weak": -0.38,
	"weaker": -0.4, "difficult": -0.5, "hard": -0.29, "serious": -0.33, "severe": -0.6,
	"illegal": -0.5, "criminal": -0.5, "crime": -0.5, "fraud": -0.7, "scandal": -0.6,
	"corrupt": -0.6, "protest": -0.2, "protests": -0.2, "strike": -0.2, "conflict": -0.4,
	"shooting": -0.6, "explosion": -0.5, "disaster": -0.7, "tragic": -0.75, "tragedy": -0.7,
	"injured": -0.5, "sick": -0.71, "ill": -0.5, "toxic": -0.6, "unfair": -0.5,
	"cut": -0.2, "cuts": -0.2, "warning": -0.3, "warns": -0.3, "controversial": -0.3,
	"collapse": -0.6, "recession": -0.5, "unemployment": -0.3, "shortage": -0.4, "damage": -0.5,
	"poverty": -0.5, "hostile": -0.6, "guilty": -0.5, "scary": -0.5, "stupid": -0.8,
	"low": -0.1, "lower": -0.1, "late": -0.3, "old": -0.1, "small": -0.25,
}

var defaultIntensifiers = map[string]float64{
	"very":         1.3,
	"really":       1.2,
	"extremely":    1.5,
	"highly":       1.3,
	"incredibly":   1.4,
	"so":           1.2,
	"too":          1.2,
	"most":         1.3,
	"quite":        1.1,
	"deeply":       1.3,
	"particularly": 1.2,
	"slightly":     0.5,
	"somewhat":     0.7,
	"barely":       0.4,
	"fairly":       0.8,
}

var defaultNegators = map[string]struct{}{
	"not":     {},
	"no":      {},
	"never":   {},
	"neither": {},
	"nor":     {},
	"nobody":  {},
	"none":    {},
	"without": {},
	"cannot":  {},
}
