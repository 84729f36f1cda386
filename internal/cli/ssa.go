package cli

func init() {
	rootCmd.AddCommand(newAppendCommand(
		"ssa",
		"Append SSA life expectancy columns by age, sex and year",
		"lost-years-output.csv",
		false,
	))
}
