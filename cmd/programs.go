package cmd

import (
	"github.com/spf13/cobra"
)

var (
	categoryFilter string
	programFields  []string
)

var programCountCmd = &cobra.Command{
	Use:   "program-count",
	Short: "Count the study programs in the database",
	Run: func(cmd *cobra.Command, args []string) {
		runQuery(func(db DBInterface) (any, error) {
			return db.CountPrograms()
		})
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the distinct study categories",
	Long: `List the distinct study categories found across all programs.

Example:
  fagskolen categories`,
	Run: func(cmd *cobra.Command, args []string) {
		runQuery(func(db DBInterface) (any, error) {
			return db.ProgramCategories()
		})
	},
}

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "List study program titles",
	Long: `List the titles of all study programs, optionally filtered by category.

Examples:
  fagskolen programs
  fagskolen programs --category Helse`,
	Run: func(cmd *cobra.Command, args []string) {
		runQuery(func(db DBInterface) (any, error) {
			return db.ProgramNames(categoryFilter)
		})
	},
}

var programFieldsCmd = &cobra.Command{
	Use:   "program-fields",
	Short: "List the queryable fields of a study program",
	Run: func(cmd *cobra.Command, args []string) {
		runQuery(func(db DBInterface) (any, error) {
			return db.ProgramFields()
		})
	},
}

var programCmd = &cobra.Command{
	Use:   "program [title]",
	Short: "Get field values for one study program",
	Long: `Get the requested field values for the study program with the given title.
Use program-fields to see which fields exist.

Examples:
  fagskolen program Elkraft --fields credits,study_language
  fagskolen program "Demensomsorg" --fields study_description`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runQuery(func(db DBInterface) (any, error) {
			return db.ProgramFieldValues(args[0], programFields)
		})
	},
}

var programCoursesCmd = &cobra.Command{
	Use:   "program-courses [title]",
	Short: "List the course codes of a study program",
	Long: `List the course codes linked to the study program with the given title.

Example:
  fagskolen program-courses Elkraft`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runQuery(func(db DBInterface) (any, error) {
			return db.ProgramCourseIDs(args[0])
		})
	},
}

func init() {
	programsCmd.Flags().StringVarP(&categoryFilter, "category", "c", "", "Filter by study category")
	programCmd.Flags().StringSliceVarP(&programFields, "fields", "f", nil, "Fields to return (required)")
	_ = programCmd.MarkFlagRequired("fields")

	rootCmd.AddCommand(programCountCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(programsCmd)
	rootCmd.AddCommand(programFieldsCmd)
	rootCmd.AddCommand(programCmd)
	rootCmd.AddCommand(programCoursesCmd)
}
