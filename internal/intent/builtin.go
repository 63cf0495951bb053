package intent

// Names of the built-in intents.
const (
	Time        = "time"
	Date        = "date"
	DateTime    = "datetime"
	Weather     = "weather"
	OpenWebsite = "open_website"
	OpenApp     = "open_app"
	YouTube     = "youtube"
	WebSearch   = "web_search"
	Wikipedia   = "wikipedia"
	Screenshot  = "screenshot"
	Volume      = "volume"
	Shutdown    = "shutdown"
	Restart     = "restart"
	Lock        = "lock"
	Quote       = "quote"
	Fact        = "fact"
	Status      = "status"
	News        = "news"
	Greeting    = "greeting"
	Thanks      = "thanks"
	Help        = "help"
	Exit        = "exit"
)

// Default returns the built-in catalog definition. The order below is the
// match precedence and is part of observable behaviour: "open the clock"
// is a time request because time is declared before open_app.
func Default() []Definition {
	return []Definition{
		{Name: Time, Patterns: []PatternDef{
			{Expr: `\b(?:what|what's|tell\s+me|give\s+me|show\s+me)\s+(?:the\s+)?time\b`},
			{Expr: `\b(?:time|clock|hour)\b`},
			{Expr: `\bwhat\s+time\s+is\s+it\b`},
		}},
		{Name: Date, Patterns: []PatternDef{
			{Expr: `\b(?:what|what's|tell\s+me|give\s+me|show\s+me)\s+(?:the\s+)?date\b`},
			{Expr: `\b(?:date|day|today)\b`},
		}},
		{Name: DateTime, Patterns: []PatternDef{
			{Expr: `\bcurrent\s+(?:time|date)\b`},
			{Expr: `\bnow\b`},
		}},
		{Name: Weather, Patterns: []PatternDef{
			{Expr: `\bweather\s+(?:in|for)\s+(.+)$`, Group: 1},
			{Expr: `\b(?:what|what's|tell\s+me|give\s+me|show\s+me)\s+(?:the\s+)?weather\b`},
			{Expr: `\bweather\s+like\b`},
			{Expr: `\bhow\s+is\s+the\s+weather\b`},
			{Expr: `\b(?:temperature|forecast)\b`},
		}},
		{Name: OpenWebsite, RequiresParam: true, Patterns: []PatternDef{
			{Expr: `\bopen\s+(?:the\s+)?(?:website|site|page)\s+(.+)$`, Group: 1},
			{Expr: `\b(?:go\s+to|visit|navigate\s+to|browse)\s+(.+)$`, Group: 1},
		}},
		{Name: OpenApp, RequiresParam: true, Patterns: []PatternDef{
			{Expr: `\bopen\s+(.+?)\s+(?:application|app|program)\b`, Group: 1},
			{Expr: `\bopen\s+(.+)$`, Group: 1},
			{Expr: `\b(?:launch|start|run)\s+(.+)$`, Group: 1},
		}},
		{Name: YouTube, RequiresParam: true, Patterns: []PatternDef{
			{Expr: `\bsearch\s+youtube\s+for\s+(.+)$`, Group: 1},
			{Expr: `\b(?:youtube|video)\s+(.+)$`, Group: 1},
			{Expr: `\bfind\s+(?:a\s+)?video\s+(?:of\s+|about\s+)?(.+)$`, Group: 1},
		}},
		{Name: WebSearch, RequiresParam: true, Patterns: []PatternDef{
			{Expr: `\bsearch\s+the\s+(?:web|internet)\s+for\s+(.+)$`, Group: 1},
			{Expr: `\b(?:search|find|look\s+up)\s+(?:for\s+)?(.+)$`, Group: 1},
			{Expr: `\b(?:google|web\s+search)\s+(.+)$`, Group: 1},
		}},
		{Name: Wikipedia, RequiresParam: true, Patterns: []PatternDef{
			{Expr: `\b(?:wikipedia|wiki)\s+(.+)$`, Group: 1},
			{Expr: `\btell\s+me\s+about\s+(.+)$`, Group: 1},
			{Expr: `\bwhat\s+is\s+(.+)$`, Group: 1},
			{Expr: `\bwho\s+is\s+(.+)$`, Group: 1},
			{Expr: `\bdefine\s+(.+)$`, Group: 1},
		}},
		{Name: Screenshot, Patterns: []PatternDef{
			{Expr: `\b(?:take|capture|save)\s+(?:a\s+)?screenshot\b`},
			{Expr: `\bscreenshot\b`},
			{Expr: `\bscreen\s+shot\b`},
			{Expr: `\bcapture\s+(?:the\s+)?screen\b`},
		}},
		{Name: Volume, RequiresParam: true, Patterns: []PatternDef{
			{Expr: `\b(?:volume|sound|audio)\s+(up|down|mute|unmute)\b`, Group: 1},
			{Expr: `\b(?:adjust|set|change)\s+(?:the\s+)?volume\s+(?:to\s+)?(\d+)\b`, Group: 1},
			{Expr: `\bvolume\s+(?:to\s+)?(\d+)\b`, Group: 1},
			{Expr: `\b(?:turn\s+)?(up|down)\s+(?:the\s+)?volume\b`, Group: 1},
			{Expr: `\b(mute|unmute)\s+(?:the\s+)?(?:sound|audio|volume)\b`, Group: 1},
		}},
		{Name: Shutdown, Patterns: []PatternDef{
			{Expr: `\b(?:shutdown|shut\s+down|turn\s+off|power\s+off)\s+(?:the\s+)?(?:computer|pc|laptop)\b`},
			{Expr: `\b(?:shutdown|shut\s+down|turn\s+off|power\s+off)\b`},
		}},
		{Name: Restart, Patterns: []PatternDef{
			{Expr: `\b(?:restart|reboot|reset)\s+(?:the\s+)?(?:computer|pc|laptop)\b`},
			{Expr: `\b(?:restart|reboot|reset)\b`},
		}},
		{Name: Lock, Patterns: []PatternDef{
			{Expr: `\b(?:lock|secure)\s+(?:the\s+)?(?:computer|pc|laptop|screen)\b`},
			{Expr: `\block\b`},
		}},
		{Name: Quote, Patterns: []PatternDef{
			{Expr: `\b(?:quote|inspiration|motivation|wisdom)\b`},
			{Expr: `\bmotivate\s+me\b`},
		}},
		{Name: Fact, Patterns: []PatternDef{
			{Expr: `\b(?:facts?|interesting|did\s+you\s+know)\b`},
		}},
		{Name: Status, Patterns: []PatternDef{
			{Expr: `\b(?:status|health|how\s+are\s+you)\b`},
			{Expr: `\bhow\s+are\s+things\b`},
		}},
		{Name: News, Patterns: []PatternDef{
			{Expr: `\b(technology|science|general)\s+(?:news|headlines)\b`, Group: 1},
			{Expr: `\b(?:news|headlines|latest)\b`},
		}},
		{Name: Greeting, Patterns: []PatternDef{
			{Expr: `\b(?:hello|hi|hey|good\s+(?:morning|afternoon|evening))\b`},
			{Expr: `\bwhat's\s+up\b`},
		}},
		{Name: Thanks, Patterns: []PatternDef{
			{Expr: `\b(?:thank\s+you|thanks|appreciate\s+it)\b`},
			{Expr: `\b(?:good\s+job|well\s+done)\b`},
		}},
		{Name: Help, Patterns: []PatternDef{
			{Expr: `\b(?:help|what\s+can\s+you\s+do|capabilities|commands)\b`},
			{Expr: `\b(?:how\s+to\s+use|tutorial|guide)\b`},
		}},
		{Name: Exit, Patterns: []PatternDef{
			{Expr: `\b(?:exit|quit|stop|goodbye|bye|shut\s+down\s+nova)\b`},
			{Expr: `\b(?:close\s+nova|end\s+session)\b`},
		}},
	}
}
