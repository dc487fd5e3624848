package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spigell/tutorhub/internal/browse"
	"github.com/spigell/tutorhub/internal/geo"
	"github.com/spigell/tutorhub/internal/listing"
	"github.com/spigell/tutorhub/internal/marketplace"
	"github.com/spigell/tutorhub/internal/session"
	"github.com/spigell/tutorhub/internal/utils"
)

const (
	cellWidth = 40
	dateFmt   = "2006-01-02"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return utils.TruncateForLog(s, cellWidth)
}

func budget(r *listing.Record) string {
	if r.Budget == nil {
		return "-"
	}

	s := strconv.FormatFloat(r.Budget.Amount, 'f', -1, 64)
	if r.Budget.Currency != "" {
		s += " " + r.Budget.Currency
	}
	if r.Budget.Frequency != "" {
		s += "/" + r.Budget.Frequency
	}
	return s
}

func date(r *listing.Record) string {
	if r.CreatedAt.IsZero() {
		return "-"
	}
	return r.CreatedAt.Format(dateFmt)
}

func renderRecords(w io.Writer, records []*listing.Record) {
	t := newTable(w)
	fmt.Fprintln(t, "ID\tTITLE\tBY\tSUBJECTS\tLOCATION\tBUDGET\tPOSTED")
	for _, r := range records {
		fmt.Fprintf(t, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			cell(r.Title),
			cell(r.OwnerName()),
			cell(strings.Join(r.SubjectNames(), ", ")),
			cell(r.Location),
			budget(r),
			date(r),
		)
	}
	t.Flush()
}

// renderView prints one of the four listing states.
func renderView(w io.Writer, what string, v *browse.View) {
	switch {
	case v.State == browse.Loading || v.State == browse.Idle:
		fmt.Fprintf(w, "Loading %s...\n", what)
		return
	case v.State == browse.Errored:
		fmt.Fprintf(w, "Could not load %s: %v\n", what, v.Err)
		return
	case v.Empty():
		if v.PageCount > 0 {
			fmt.Fprintf(w, "No %s on this page match the filters (%d hidden).\n", what, v.Hidden())
		} else {
			fmt.Fprintf(w, "No %s found.\n", what)
		}
	default:
		renderRecords(w, v.Records)
	}

	renderWindow(w, v)
}

func renderWindow(w io.Writer, v *browse.View) {
	win := v.Window
	if v.Pagination.TotalItems == 0 {
		return
	}

	pages := make([]string, 0, len(win.Pages)+2)
	for _, p := range win.Pages {
		if p == v.Pagination.CurrentPage {
			pages = append(pages, fmt.Sprintf("[%d]", p))
			continue
		}
		pages = append(pages, strconv.Itoa(p))
	}
	if win.Ellipsis {
		pages = append(pages, "...", strconv.Itoa(win.LastPage))
	}

	fmt.Fprintf(w, "\nShowing %d-%d of %d  |  pages: %s  |  %d per page  |  sort: %s\n",
		win.RangeStart, win.RangeEnd, v.Pagination.TotalItems,
		strings.Join(pages, " "), v.Pagination.ItemsPerPage, v.Sort,
	)

	if hidden := v.Hidden(); hidden > 0 {
		fmt.Fprintf(w, "%d of %d records on this page hidden by filters\n", hidden, v.PageCount)
	}
	for _, st := range v.FilterStatus {
		if st.Enabled {
			continue
		}
		fmt.Fprintf(w, "filter %s ignored: %s\n", st.Name, st.Reason)
	}
}

func renderUser(w io.Writer, u *session.User) {
	t := newTable(w)
	fmt.Fprintf(t, "Name:\t%s\n", cell(u.Name))
	fmt.Fprintf(t, "Email:\t%s\n", cell(u.Email))
	fmt.Fprintf(t, "Role:\t%s\n", cell(u.Role))
	fmt.Fprintf(t, "Verified:\t%t\n", u.Verified)
	t.Flush()
}

func renderProfile(w io.Writer, u *marketplace.User) {
	t := newTable(w)
	fmt.Fprintf(t, "Name:\t%s\n", cell(u.Name))
	fmt.Fprintf(t, "Email:\t%s\n", cell(u.Email))
	fmt.Fprintf(t, "Role:\t%s\n", cell(u.Role))
	fmt.Fprintf(t, "Phone:\t%s\n", cell(u.Phone))
	fmt.Fprintf(t, "Location:\t%s\n", cell(u.Location))
	fmt.Fprintf(t, "Bio:\t%s\n", cell(u.Bio))
	fmt.Fprintf(t, "Verified:\t%t\n", u.IsVerified)
	t.Flush()
}

func renderCourses(w io.Writer, courses []*marketplace.Course) {
	t := newTable(w)
	fmt.Fprintln(t, "ID\tNAME\tDESCRIPTION")
	for _, c := range courses {
		fmt.Fprintf(t, "%s\t%s\t%s\n", c.Identity(), cell(c.Name), cell(c.Description))
	}
	t.Flush()
}

func renderSubjects(w io.Writer, subjects []*marketplace.CourseSubject) {
	t := newTable(w)
	fmt.Fprintln(t, "ID\tNAME\tEXAM BOARDS")
	for _, s := range subjects {
		fmt.Fprintf(t, "%s\t%s\t%s\n", s.Identity(), cell(s.Name), cell(strings.Join(s.ExamBoards, ", ")))
	}
	t.Flush()
}

func renderNotes(w io.Writer, topics []*marketplace.Topic) {
	for _, topic := range topics {
		topic.Walk(func(depth int, t *marketplace.Topic) {
			indent := strings.Repeat("  ", depth)
			fmt.Fprintf(w, "%s# %s\n", indent, t.Name)
			for _, n := range t.Notes {
				fmt.Fprintf(w, "%s  - %s\n", indent, n.Title)
				if n.Content != "" {
					fmt.Fprintf(w, "%s    %s\n", indent, utils.TruncateForLog(n.Content, 200))
				}
				if n.FileURL != "" {
					fmt.Fprintf(w, "%s    %s\n", indent, n.FileURL)
				}
			}
		})
	}
}

func renderQuestions(w io.Writer, topics []*marketplace.Topic, answers bool) {
	for _, topic := range topics {
		topic.Walk(func(depth int, t *marketplace.Topic) {
			indent := strings.Repeat("  ", depth)
			fmt.Fprintf(w, "%s# %s\n", indent, t.Name)
			for i, q := range t.Questions {
				fmt.Fprintf(w, "%s  %d. %s", indent, i+1, q.Question)
				if q.Marks > 0 {
					fmt.Fprintf(w, " [%d marks]", q.Marks)
				}
				fmt.Fprintln(w)
				if answers && q.Answer != "" {
					fmt.Fprintf(w, "%s     answer: %s\n", indent, q.Answer)
				}
			}
		})
	}
}

func renderPapers(w io.Writer, papers []*marketplace.PastPaper) {
	t := newTable(w)
	fmt.Fprintln(t, "YEAR\tSESSION\tPAPER\tQUESTION PAPER\tMARK SCHEME")
	for _, p := range papers {
		fmt.Fprintf(t, "%d\t%s\t%s\t%s\t%s\n", p.Year, cell(p.Session), cell(p.Paper), cell(p.QuestionPaperURL), cell(p.MarkSchemeURL))
	}
	t.Flush()
}

func renderPlaces(w io.Writer, places []geo.Place) {
	t := newTable(w)
	fmt.Fprintln(t, "PLACE\tPOSTCODE\tLAT\tLON")
	for _, p := range places {
		fmt.Fprintf(t, "%s\t%s\t%.5f\t%.5f\n", cell(p.Label()), cell(p.Postcode), p.Lat, p.Lon)
	}
	t.Flush()
}
