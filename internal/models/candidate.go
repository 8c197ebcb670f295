package models

// ArrangeQuery selects the slot a substitute is needed for.
type ArrangeQuery struct {
	Date            string
	Period          int
	AbsentTeacherID string
	ClassName       string
}

// Candidate is one ranked substitute suggestion. The classification
// flags drive the ranking tiers and the UI labels; the resolver never
// mutates roster state.
type Candidate struct {
	Teacher          Teacher `json:"teacher"`
	ActualFree       []int   `json:"actualFree"`
	IsPriorityTarget bool    `json:"isPriorityTarget"`
	IsExtractable    bool    `json:"isExtractable"`
	SupportClass     string  `json:"supportClass,omitempty"`
	IsCoreTeacher    bool    `json:"isCoreTeacher"`
	CoreSubject      string  `json:"coreSubject,omitempty"`
}
