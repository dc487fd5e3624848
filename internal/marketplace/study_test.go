package marketplace

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRevisionNotesWalksNestedTopics(t *testing.T) {
	c, calls := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success": true, "data": [
			{"_id": "t1", "name": "Algebra", "notes": [{"title": "Linear equations", "content": "ax+b=0"}],
			 "subtopics": [{"_id": "t1a", "name": "Quadratics", "subtopics": [{"_id": "t1a1", "name": "Completing the square"}]}]},
			{"_id": "t2", "name": "Geometry"}
		]}`)
	})

	q := StudyQuery{CourseID: "gcse", SubjectID: "maths", ExamBoard: "AQA"}
	topics, err := c.GetRevisionNotes(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "/api/study/revision-notes", (*calls)[0].path)
	assert.Equal(t, "courseId=gcse&examBoard=AQA&subjectId=maths", (*calls)[0].query)

	require.Len(t, topics, 2)
	assert.Equal(t, "Linear equations", topics[0].Notes[0].Title)

	var visited []string
	var depths []int
	topics[0].Walk(func(depth int, topic *Topic) {
		visited = append(visited, topic.Name)
		depths = append(depths, depth)
	})
	assert.Equal(t, []string{"Algebra", "Quadratics", "Completing the square"}, visited)
	assert.Equal(t, []int{0, 1, 2}, depths)
}

func TestGetExamQuestions(t *testing.T) {
	c, calls := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success": true, "data": {"topics": [
			{"name": "Forces", "questions": [{"question": "State Newton's first law", "marks": "2", "difficulty": "easy"}]}
		]}}`)
	})

	topics, err := c.GetExamQuestions(context.Background(), StudyQuery{CourseID: "a", SubjectID: "b", ExamBoard: "OCR"})
	require.NoError(t, err)

	assert.Equal(t, "/api/study/exam-questions", (*calls)[0].path)
	require.Len(t, topics, 1)
	require.Len(t, topics[0].Questions, 1)
	assert.Equal(t, 2, topics[0].Questions[0].Marks)
}

func TestGetPastPapers(t *testing.T) {
	c, _ := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success": true, "data": [
			{"_id": "pp1", "year": 2023, "session": "May/June", "paper": "1H",
			 "questionPaperUrl": "https://example.com/qp.pdf", "markSchemeUrl": "https://example.com/ms.pdf"}
		]}`)
	})

	papers, err := c.GetPastPapers(context.Background(), StudyQuery{CourseID: "a", SubjectID: "b", ExamBoard: "Edexcel"})
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, 2023, papers[0].Year)
	assert.Equal(t, "https://example.com/ms.pdf", papers[0].MarkSchemeURL)
}

func TestGetSubjectsFiltersByCourse(t *testing.T) {
	c, calls := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success": true, "data": [{"_id": "s1", "name": "Biology", "examBoards": ["AQA", "OCR"]}]}`)
	})

	subjects, err := c.GetSubjects(context.Background(), "gcse")
	require.NoError(t, err)

	assert.Equal(t, "courseId=gcse", (*calls)[0].query)
	require.Len(t, subjects, 1)
	assert.Equal(t, "s1", subjects[0].Identity())
	assert.Equal(t, []string{"AQA", "OCR"}, subjects[0].ExamBoards)
}
