package cli

func init() {
	rootCmd.AddCommand(newAppendCommand(
		"who",
		"Append WHO life expectancy columns by country, age, sex and year",
		"lost-years-output.csv",
		true,
	))
}
