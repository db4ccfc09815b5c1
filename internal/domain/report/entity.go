package report

// Tag is one semantic attendance classification label. The set is closed;
// the engine appends tags in resolution order and never duplicates one.
type Tag string

const (
	TagWeekOff          Tag = "Week off"
	TagWeekOffWorked    Tag = "Week off worked"
	TagLeave            Tag = "Leave"
	TagPresentOnLeave   Tag = "Present (On Leave)"
	TagAbsent           Tag = "Absent"
	TagLateIn           Tag = "Late in"
	TagPermissionIn     Tag = "Permission in"
	TagHalfDayIn        Tag = "Half day in"
	TagEarlyIn          Tag = "Early in"
	TagShiftOutNotDone  Tag = "Shift out punch not done"
	TagWorking          Tag = "Working"
	TagEarlyOut         Tag = "Early out"
	TagHalfDayOut       Tag = "Half day out"
	TagLateOut          Tag = "Late out"
	TagPresent          Tag = "Present"
)

// Color is the severity bucket derived from the tag set.
type Color string

const (
	ColorGreen  Color = "green"
	ColorGray   Color = "gray"
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorBlue   Color = "blue"
)

// TagSet is an ordered, duplicate-free collection of tags.
type TagSet struct {
	tags []Tag
	seen map[Tag]struct{}
}

func NewTagSet() *TagSet {
	return &TagSet{seen: make(map[Tag]struct{})}
}

// Append adds a tag unless it is already present, preserving order.
func (s *TagSet) Append(tag Tag) {
	if _, ok := s.seen[tag]; ok {
		return
	}
	s.seen[tag] = struct{}{}
	s.tags = append(s.tags, tag)
}

func (s *TagSet) Contains(tag Tag) bool {
	_, ok := s.seen[tag]
	return ok
}

func (s *TagSet) Tags() []Tag {
	return s.tags
}

func (s *TagSet) Len() int {
	return len(s.tags)
}

// DeriveColor applies the override chain: green by default, red for absence
// or missing shift-out punch, orange for late/early/half-day, blue for
// leave. Blue winning over red is the observed production behavior and is
// kept as-is.
func DeriveColor(s *TagSet) Color {
	color := ColorGreen

	if s.Contains(TagAbsent) || s.Contains(TagShiftOutNotDone) {
		color = ColorRed
	}

	if s.Contains(TagLateIn) || s.Contains(TagEarlyOut) ||
		s.Contains(TagHalfDayIn) || s.Contains(TagHalfDayOut) {
		color = ColorOrange
	}

	if s.Contains(TagLeave) {
		color = ColorBlue
	}

	return color
}
