package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/tutorhub/internal/marketplace"
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Browse courses, revision notes, past papers and exam questions",
}

var studyCoursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List courses",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup()
		courses, err := e.api.GetCourses(context.Background())
		if err != nil {
			e.fail("getting courses", err)
		}
		if len(courses) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No courses found.")
			return
		}
		renderCourses(cmd.OutOrStdout(), courses)
	},
}

var studySubjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "List subjects, optionally of one course",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup()
		course, _ := cmd.Flags().GetString("course")

		subjects, err := e.api.GetSubjects(context.Background(), course)
		if err != nil {
			e.fail("getting subjects", err)
		}
		if len(subjects) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No subjects found.")
			return
		}
		renderSubjects(cmd.OutOrStdout(), subjects)
	},
}

var studyNotesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Show revision notes",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup()
		topics, err := e.api.GetRevisionNotes(context.Background(), studyQuery(cmd))
		if err != nil {
			e.fail("getting revision notes", err)
		}
		if len(topics) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No revision notes for this selection.")
			return
		}
		renderNotes(cmd.OutOrStdout(), topics)
	},
}

var studyPapersCmd = &cobra.Command{
	Use:   "papers",
	Short: "List past papers and mark schemes",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup()
		papers, err := e.api.GetPastPapers(context.Background(), studyQuery(cmd))
		if err != nil {
			e.fail("getting past papers", err)
		}
		if len(papers) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No past papers for this selection.")
			return
		}
		renderPapers(cmd.OutOrStdout(), papers)
	},
}

var studyQuestionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Show exam questions",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup()
		topics, err := e.api.GetExamQuestions(context.Background(), studyQuery(cmd))
		if err != nil {
			e.fail("getting exam questions", err)
		}
		if len(topics) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No exam questions for this selection.")
			return
		}
		answers, _ := cmd.Flags().GetBool("answers")
		renderQuestions(cmd.OutOrStdout(), topics, answers)
	},
}

func init() {
	rootCmd.AddCommand(studyCmd)
	studyCmd.AddCommand(studyCoursesCmd, studySubjectsCmd, studyNotesCmd, studyPapersCmd, studyQuestionsCmd)

	studySubjectsCmd.Flags().StringP("course", "c", "", "course id")

	for _, c := range []*cobra.Command{studyNotesCmd, studyPapersCmd, studyQuestionsCmd} {
		c.Flags().StringP("course", "c", "", "course id")
		c.Flags().StringP("subject", "s", "", "subject id")
		c.Flags().StringP("board", "b", "", "exam board, e.g. AQA")
		c.MarkFlagRequired("course")
		c.MarkFlagRequired("subject")
		c.MarkFlagRequired("board")
	}

	studyQuestionsCmd.Flags().Bool("answers", false, "show answers")
}

func studyQuery(cmd *cobra.Command) marketplace.StudyQuery {
	course, _ := cmd.Flags().GetString("course")
	subject, _ := cmd.Flags().GetString("subject")
	board, _ := cmd.Flags().GetString("board")

	return marketplace.StudyQuery{CourseID: course, SubjectID: subject, ExamBoard: board}
}
