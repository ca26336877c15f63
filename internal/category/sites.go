package category

// Built-in site lists. Matching is substring containment on the hostname,
// not domain-exact, so a hostname that merely embeds a listed domain will
// match; an accepted approximation.
var learningSites = []string{
	"github.com",
	"stackoverflow.com",
	"coursera.org",
	"udemy.com",
	"khanacademy.org",
	"edx.org",
	"leetcode.com",
	"hackerrank.com",
	"codecademy.com",
	"w3schools.com",
	"mdn.mozilla.org",
	"docs.python.org",
	"docs.microsoft.com",
	"developer.mozilla.org",
	"medium.com",
	"arxiv.org",
	"scholar.google.com",
	"researchgate.net",
	"notion.so",
	"evernote.com",
	"obsidian.md",
	"quizlet.com",
	"duolingo.com",
	"brilliant.org",
}

var distractionSites = []string{
	"facebook.com",
	"youtube.com",
	"instagram.com",
	"twitter.com",
	"x.com",
	"whatsapp.com",
	"tiktok.com",
	"reddit.com",
	"twitch.tv",
	"netflix.com",
	"hulu.com",
	"disneyplus.com",
	"primevideo.com",
	"spotify.com",
	"soundcloud.com",
	"pinterest.com",
	"snapchat.com",
	"9gag.com",
	"buzzfeed.com",
	"imgur.com",
	"discord.com",
}

var educationalKeywords = []string{
	"tutorial", "learn", "learning", "study", "studying", "guide", "how to", "step by step",
	"lesson", "lectures", "lecture notes", "course", "curriculum", "syllabus",
	"revision", "practice", "exercise", "notes", "handwritten notes",
	"exam", "test", "quiz", "mcq", "assignment", "homework",
	"explanation", "concept", "theory", "fundamentals", "basics", "introduction",
	"examples", "worked examples", "documentation", "docs",
	"api reference", "developer guide", "code", "coding", "programming",
	"syntax", "implementation", "algorithm", "data structure",
	"debug", "error", "exception", "stack trace", "runtime error",
	"interview questions", "system design", "open source",
	"repository", "github repo", "pull request", "commit",
	"formula", "derivation", "proof", "theorem", "corollary",
	"numerical", "problem solving", "experiment", "lab manual",
	"physics", "chemistry", "biology", "mathematics", "calculus", "algebra",
	"statistics", "probability", "thermodynamics", "mechanics",
	"quantum", "electromagnetism", "education", "development", "science", "math", "history",
}

var entertainmentKeywords = []string{
	"funny", "prank", "reaction", "vlog", "gaming",
	"music video", "trailer", "meme", "compilation",
	"fun", "comedy", "skit", "roast", "parody",
	"shorts", "reels", "gameplay", "playthrough",
	"song", "songs", "lyrics", "dance", "viral", "trending",
}
