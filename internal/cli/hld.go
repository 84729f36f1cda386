package cli

func init() {
	rootCmd.AddCommand(newAppendCommand(
		"hld",
		"Append HLD (Human Life-Table Database) columns by country, age, sex and year",
		"lost-years-hld-output.csv",
		true,
	))
}
