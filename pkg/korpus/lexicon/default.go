package lexicon

// Default returns a lexicon preloaded with common English irregular forms.
func Default() *Lexicon {
	lex := New()
	for _, g := range irregulars {
		lex.AddGroup(g[0], g[1:])
	}
	return lex
}

var irregulars = [][]string{
	{"be", "am", "is", "are", "was", "were", "been", "being", "'m", "'re"},
	{"have", "has", "had", "having", "'ve"},
	{"do", "does", "did", "done", "doing"},
	{"go", "goes", "went", "gone", "going"},
	{"say", "says", "said"},
	{"make", "makes", "made", "making"},
	{"take", "takes", "took", "taken", "taking"},
	{"come", "comes", "came", "coming"},
	{"see", "sees", "saw", "seen", "seeing"},
	{"know", "knows", "knew", "known"},
	{"get", "gets", "got", "gotten", "getting"},
	{"give", "gives", "gave", "given", "giving"},
	{"find", "finds", "found"},
	{"think", "thinks", "thought"},
	{"tell", "tells", "told"},
	{"become", "becomes", "became"},
	{"leave", "leaves", "left"},
	{"feel", "feels", "felt"},
	{"bring", "brings", "brought"},
	{"begin", "begins", "began", "begun"},
	{"keep", "keeps", "kept"},
	{"hold", "holds", "held"},
	{"write", "writes", "wrote", "written", "writing"},
	{"stand", "stands", "stood"},
	{"hear", "hears", "heard"},
	{"mean", "means", "meant"},
	{"meet", "meets", "met"},
	{"run", "runs", "ran", "running"},
	{"pay", "pays", "paid"},
	{"sit", "sits", "sat", "sitting"},
	{"speak", "speaks", "spoke", "spoken"},
	{"lie", "lies", "lay", "lain", "lying"},
	{"lead", "leads", "led"},
	{"read", "reads"},
	{"grow", "grows", "grew", "grown"},
	{"lose", "loses", "lost", "losing"},
	{"fall", "falls", "fell", "fallen"},
	{"send", "sends", "sent"},
	{"build", "builds", "built"},
	{"understand", "understands", "understood"},
	{"draw", "draws", "drew", "drawn"},
	{"break", "breaks", "broke", "broken"},
	{"spend", "spends", "spent"},
	{"rise", "rises", "rose", "risen", "rising"},
	{"drive", "drives", "drove", "driven", "driving"},
	{"buy", "buys", "bought"},
	{"wear", "wears", "wore", "worn"},
	{"choose", "chooses", "chose", "chosen", "choosing"},
	{"eat", "eats", "ate", "eaten"},
	{"fly", "flies", "flew", "flown"},
	{"sing", "sings", "sang", "sung"},
	{"swim", "swims", "swam", "swum", "swimming"},
	{"drink", "drinks", "drank", "drunk"},
	{"teach", "teaches", "taught"},
	{"catch", "catches", "caught"},
	{"fight", "fights", "fought"},
	{"sleep", "sleeps", "slept"},
	{"cost", "costs"},
	{"put", "puts", "putting"},
	{"set", "sets", "setting"},
	{"cut", "cuts", "cutting"},
	{"hit", "hits", "hitting"},
	{"let", "lets", "letting"},
	{"will", "'ll", "wo"},
	{"not", "n't"},
	{"man", "men"},
	{"woman", "women"},
	{"child", "children"},
	{"person", "people"},
	{"mouse", "mice"},
	{"foot", "feet"},
	{"tooth", "teeth"},
	{"goose", "geese"},
	{"ox", "oxen"},
	{"datum", "data"},
	{"analysis", "analyses"},
	{"crisis", "crises"},
	{"phenomenon", "phenomena"},
	{"criterion", "criteria"},
	{"good", "better", "best"},
	{"bad", "worse", "worst"},
	{"far", "further", "farther", "furthest", "farthest"},
	{"little", "less", "least"},
	{"many", "more", "most"},
}
