package quiz

// CategoryNames maps Open Trivia DB category ids to display labels, shared
// by setup, scores, and leaderboard views.
var CategoryNames = map[int]string{
	9:  "General",
	10: "Books",
	11: "Film",
	12: "Music",
	13: "Musicals & Theatre",
	14: "Television",
	15: "Video Games",
	17: "Nature",
	18: "Computers",
	19: "Mathematics",
	20: "Mythology",
	21: "Sports",
	22: "Geography",
	23: "History",
	24: "Politics",
	25: "Art",
	26: "Celebrities",
	27: "Animals",
	29: "Comics",
	31: "Anime & Manga",
	32: "Cartoons",
	33: "Board Games",
}

// CategoryName returns the label for a category id, or a generic fallback
func CategoryName(id int) string {
	if name, ok := CategoryNames[id]; ok {
		return name
	}
	return "Unknown"
}
