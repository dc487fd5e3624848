package marketplace

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const (
	coursesPath       = "/courses"
	subjectsPath      = "/subjects"
	revisionNotesPath = "/study/revision-notes"
	pastPapersPath    = "/study/past-papers"
	examQuestionsPath = "/study/exam-questions"
)

type Course struct {
	ID          string `json:"_id"`
	AltID       string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *Course) Identity() string { return firstNonEmpty(c.ID, c.AltID) }

type CourseSubject struct {
	ID         string   `json:"_id"`
	AltID      string   `json:"id"`
	Name       string   `json:"name"`
	CourseID   string   `json:"courseId"`
	ExamBoards []string `json:"examBoards"`
}

func (s *CourseSubject) Identity() string { return firstNonEmpty(s.ID, s.AltID) }

// StudyQuery selects study content for one subject of one course and exam board.
type StudyQuery struct {
	CourseID  string `json:"courseId" validate:"required"`
	SubjectID string `json:"subjectId" validate:"required"`
	ExamBoard string `json:"examBoard" validate:"required"`
}

func (q StudyQuery) values() url.Values {
	v := url.Values{}
	v.Set("courseId", strings.TrimSpace(q.CourseID))
	v.Set("subjectId", strings.TrimSpace(q.SubjectID))
	v.Set("examBoard", strings.TrimSpace(q.ExamBoard))
	return v
}

type Note struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	FileURL string `json:"fileUrl"`
}

type Question struct {
	ID         string `json:"_id"`
	Question   string `json:"question"`
	Marks      int    `json:"marks"`
	Difficulty string `json:"difficulty"`
	Answer     string `json:"answer"`
	Year       int    `json:"year"`
}

// Topic is a node of the study content tree. Revision notes and exam
// questions hang off topics at any depth.
type Topic struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Notes     []Note     `json:"notes"`
	Questions []Question `json:"questions"`
	Subtopics []*Topic   `json:"subtopics"`
}

// Walk visits the topic and its subtopics depth first.
func (t *Topic) Walk(fn func(depth int, topic *Topic)) {
	t.walk(0, fn)
}

func (t *Topic) walk(depth int, fn func(int, *Topic)) {
	if t == nil {
		return
	}
	fn(depth, t)
	for _, sub := range t.Subtopics {
		sub.walk(depth+1, fn)
	}
}

type PastPaper struct {
	ID               string `json:"_id"`
	Title            string `json:"title"`
	Year             int    `json:"year"`
	Session          string `json:"session"`
	Paper            string `json:"paper"`
	QuestionPaperURL string `json:"questionPaperUrl"`
	MarkSchemeURL    string `json:"markSchemeUrl"`
}

func (c *Client) GetCourses(ctx context.Context) ([]*Course, error) {
	env, err := c.get(ctx, coursesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("get courses: %w", err)
	}

	var courses []*Course
	if err := decode(env.Data, &courses); err != nil {
		return nil, fmt.Errorf("get courses: decoding: %w", err)
	}
	return courses, nil
}

func (c *Client) GetSubjects(ctx context.Context, courseID string) ([]*CourseSubject, error) {
	q := url.Values{}
	if courseID = strings.TrimSpace(courseID); courseID != "" {
		q.Set("courseId", courseID)
	}

	env, err := c.get(ctx, subjectsPath, q)
	if err != nil {
		return nil, fmt.Errorf("get subjects: %w", err)
	}

	var subjects []*CourseSubject
	if err := decode(env.Data, &subjects); err != nil {
		return nil, fmt.Errorf("get subjects: decoding: %w", err)
	}
	return subjects, nil
}

func (c *Client) GetRevisionNotes(ctx context.Context, q StudyQuery) ([]*Topic, error) {
	return c.getTopics(ctx, revisionNotesPath, "revision notes", q)
}

func (c *Client) GetExamQuestions(ctx context.Context, q StudyQuery) ([]*Topic, error) {
	return c.getTopics(ctx, examQuestionsPath, "exam questions", q)
}

func (c *Client) GetPastPapers(ctx context.Context, q StudyQuery) ([]*PastPaper, error) {
	if err := c.validator.Struct(q); err != nil {
		return nil, err
	}

	env, err := c.get(ctx, pastPapersPath, q.values())
	if err != nil {
		return nil, fmt.Errorf("get past papers: %w", err)
	}

	data := env.Data
	if inner := nested(data, "papers"); inner != nil {
		data = inner
	}

	var papers []*PastPaper
	if err := decode(data, &papers); err != nil {
		return nil, fmt.Errorf("get past papers: decoding: %w", err)
	}
	return papers, nil
}

func (c *Client) getTopics(ctx context.Context, path, what string, q StudyQuery) ([]*Topic, error) {
	if err := c.validator.Struct(q); err != nil {
		return nil, err
	}

	env, err := c.get(ctx, path, q.values())
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", what, err)
	}

	data := env.Data
	if inner := nested(data, "topics"); inner != nil {
		data = inner
	}

	var topics []*Topic
	if err := decode(data, &topics); err != nil {
		return nil, fmt.Errorf("get %s: decoding: %w", what, err)
	}
	return topics, nil
}
