package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
)

var courseFields []string

var courseCountCmd = &cobra.Command{
	Use:   "course-count",
	Short: "Count the courses in the database",
	Run: func(cmd *cobra.Command, args []string) {
		runQuery(func(db DBInterface) (any, error) {
			return db.CountCourses()
		})
	},
}

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List all course titles",
	Run: func(cmd *cobra.Command, args []string) {
		runQuery(func(db DBInterface) (any, error) {
			return db.CourseTitles()
		})
	},
}

var courseIDsCmd = &cobra.Command{
	Use:   "course-ids [title]",
	Short: "Look up course codes by course title",
	Long: `Look up the course codes carrying the given title. A title can map to
more than one code when the same course is offered under several codes.

Example:
  fagskolen course-ids "Elektriske systemer"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runQuery(func(db DBInterface) (any, error) {
			return db.CourseIDsByTitle(args[0])
		})
	},
}

var courseFieldsCmd = &cobra.Command{
	Use:   "course-fields",
	Short: "List the queryable fields of a course",
	Run: func(cmd *cobra.Command, args []string) {
		runQuery(func(db DBInterface) (any, error) {
			return db.CourseFields()
		})
	},
}

var courseCmd = &cobra.Command{
	Use:   "course [course-id]",
	Short: "Get field values for one course",
	Long: `Get the requested field values for the course with the given code.
Use course-fields to see which fields exist.

Example:
  fagskolen course 00TE01A --fields course_title,credits`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runQuery(func(db DBInterface) (any, error) {
			return db.CourseFieldValues(args[0], courseFields)
		})
	},
}

var locationCmd = &cobra.Command{
	Use:   "location [location-id]",
	Short: "Resolve a location id to its campus name",
	Long: `Resolve a numeric location id, as stored on a study program, to the
campus name.

Example:
  fagskolen location 4`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			HandleError(err, "Location id must be an integer")
		}
		runQuery(func(db DBInterface) (any, error) {
			return db.LocationName(id)
		})
	},
}

func init() {
	courseCmd.Flags().StringSliceVarP(&courseFields, "fields", "f", nil, "Fields to return (required)")
	_ = courseCmd.MarkFlagRequired("fields")

	rootCmd.AddCommand(courseCountCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(courseIDsCmd)
	rootCmd.AddCommand(courseFieldsCmd)
	rootCmd.AddCommand(courseCmd)
	rootCmd.AddCommand(locationCmd)
}
