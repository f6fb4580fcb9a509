package weatherserver

import "fmt"

// Wire shapes for the subset of the NWS API this server consumes.

type alertsResponse struct {
	Features []alertFeature `json:"features"`
}

type alertFeature struct {
	Properties alertProperties `json:"properties"`
}

type alertProperties struct {
	Event       string `json:"event"`
	AreaDesc    string `json:"areaDesc"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Instruction string `json:"instruction"`
}

type pointsResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []forecastPeriod `json:"periods"`
	} `json:"properties"`
}

type forecastPeriod struct {
	Name             string `json:"name"`
	Temperature      int    `json:"temperature"`
	TemperatureUnit  string `json:"temperatureUnit"`
	WindSpeed        string `json:"windSpeed"`
	WindDirection    string `json:"windDirection"`
	DetailedForecast string `json:"detailedForecast"`
}

func formatAlert(p alertProperties) string {
	event := orUnknown(p.Event)
	area := orUnknown(p.AreaDesc)
	severity := orUnknown(p.Severity)
	description := p.Description
	if description == "" {
		description = "No description available"
	}
	instruction := p.Instruction
	if instruction == "" {
		instruction = "No specific instructions provided"
	}

	return fmt.Sprintf("Event: %s\nArea: %s\nSeverity: %s\nDescription: %s\nInstructions: %s",
		event, area, severity, description, instruction)
}

func formatPeriod(p forecastPeriod) string {
	return fmt.Sprintf("%s:\nTemperature: %d°%s\nWind: %s %s\nForecast: %s",
		p.Name, p.Temperature, p.TemperatureUnit, p.WindSpeed, p.WindDirection, p.DetailedForecast)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}

	return s
}
