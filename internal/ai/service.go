package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const disclaimerMarker = "Disclaimer:"

// NoDataError is the model's own refusal, e.g. "error: no data available".
type NoDataError struct {
	Message string
}

func (e *NoDataError) Error() string {
	return e.Message
}

type Condition struct {
	Condition  string  `json:"condition"`
	Confidence float64 `json:"confidence"`
}

// Triage is the parsed answer to a symptom check. NoneFound is set when the
// model explicitly reported no matching conditions.
type Triage struct {
	Conditions []Condition
	NoneFound  bool
}

type Nutrients struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fats     float64 `json:"fats"`
	Carbs    float64 `json:"carbs"`
}

type Verification struct {
	IsValid bool    `json:"is_valid"`
	Reason  *string `json:"reason"`
}

// Service builds prompts for each HealthChain feature and parses the answers.
type Service struct {
	gen       Generator
	fastModel string
	proModel  string
}

func NewService(gen Generator, fastModel, proModel string) *Service {
	return &Service{gen: gen, fastModel: fastModel, proModel: proModel}
}

func (s *Service) text(ctx context.Context, model, prompt string) (string, error) {
	return s.gen.Generate(ctx, Request{
		Model:    model,
		Contents: []Content{{Role: "user", Parts: []Part{{Text: prompt}}}},
	})
}

// CheckSymptoms asks for likely conditions with confidence percentages.
func (s *Service) CheckSymptoms(ctx context.Context, symptoms []string, age int, gender string) (Triage, error) {
	prompt := fmt.Sprintf(
		"Given symptoms %s, age %d, gender %s, "+
			"list possible conditions with confidence percentages in the format: 'Condition: X%%' (one per line). "+
			"If no conditions match, return 'No conditions found'. "+
			"Include: 'Disclaimer: Not a substitute for medical advice.'",
		strings.Join(symptoms, ", "), age, gender)
	answer, err := s.text(ctx, s.fastModel, prompt)
	if err != nil {
		return Triage{}, err
	}
	return ParseConditions(answer), nil
}

var conditionLine = regexp.MustCompile(`^(?:Condition:)?\s*(.+?)\s*:\s*(\d+)%$`)

// ParseConditions reads "Name: NN%" lines. A "No conditions found" line
// discards everything and marks the result NoneFound.
func ParseConditions(answer string) Triage {
	conditions := []Condition{}
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(line)
		if m := conditionLine.FindStringSubmatch(line); m != nil {
			confidence, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			conditions = append(conditions, Condition{Condition: strings.TrimSpace(m[1]), Confidence: confidence})
		} else if strings.Contains(line, "No conditions found") {
			return Triage{Conditions: []Condition{}, NoneFound: true}
		}
	}
	return Triage{Conditions: conditions}
}

// LookupNutrients asks for approximate macro-nutrients of a food item.
func (s *Service) LookupNutrients(ctx context.Context, foodItem string) (Nutrients, error) {
	prompt := fmt.Sprintf("Provide nutritional information for %s in the following format: "+
		"'calories: X, protein: Y g, fats: Z g, carbs: W g' where X, Y, Z, W are approximate values in numerical form. "+
		"Respond only with the formatted string. If unable to provide data, return 'error: no data available'.", foodItem)
	answer, err := s.text(ctx, s.proModel, prompt)
	if err != nil {
		return Nutrients{}, err
	}
	return ParseNutrients(answer)
}

// ParseNutrients reads "key: value" pairs separated by ", ". Missing keys
// stay zero; an "error:" answer becomes a *NoDataError.
func ParseNutrients(answer string) (Nutrients, error) {
	answer = strings.TrimSpace(answer)
	if strings.HasPrefix(answer, "error:") {
		return Nutrients{}, &NoDataError{Message: strings.TrimSpace(strings.TrimPrefix(answer, "error:"))}
	}

	values := map[string]float64{}
	for _, part := range strings.Split(answer, ", ") {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		fields := strings.Fields(value)
		if len(fields) == 0 {
			values[strings.ToLower(strings.TrimSpace(key))] = 0
			continue
		}
		numeric := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' {
				return r
			}
			return -1
		}, fields[0])
		n, err := strconv.ParseFloat(numeric, 64)
		if err != nil {
			n = 0
		}
		values[strings.ToLower(strings.TrimSpace(key))] = n
	}

	return Nutrients{
		Calories: values["calories"],
		Protein:  values["protein"],
		Fats:     values["fats"],
		Carbs:    values["carbs"],
	}, nil
}

// IsRecognizedMedicine asks a yes/no question about name.
func (s *Service) IsRecognizedMedicine(ctx context.Context, name string) (bool, error) {
	prompt := fmt.Sprintf("Is '%s' a recognized medicine or pharmaceutical drug? Respond with 'yes' or 'no' only.", name)
	answer, err := s.text(ctx, s.fastModel, prompt)
	if err != nil {
		return false, err
	}
	return IsAffirmative(answer), nil
}

// IsAffirmative reports whether a yes/no answer starts with "yes".
func IsAffirmative(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	answer = strings.TrimLeft(answer, "'\"*`")
	return strings.HasPrefix(answer, "yes")
}

// VerifyMedicine asks for a JSON verdict on a medicine name.
func (s *Service) VerifyMedicine(ctx context.Context, name string) (Verification, error) {
	prompt := "Verify if the provided medicine name is valid. Return ONLY a JSON object with the following structure:\n" +
		"{\n" +
		"  \"is_valid\": true|false,\n" +
		"  \"reason\": \"string (optional, only if is_valid is false)\"\n" +
		"}\n" +
		"Set 'is_valid' to true if the medicine name exists or it is a medicine brand name. " +
		"Set 'is_valid' to false for any non-medicine terms or any other material than medicine (e.g., 'drive', 'apple', 'pipe', 'car', 'pen'). " +
		"If invalid, provide a reason in the 'reason' field (e.g., 'Not a recognized medicine').\n" +
		fmt.Sprintf("Medicine name: %s", name)
	answer, err := s.gen.Generate(ctx, Request{
		Model:            s.fastModel,
		Contents:         []Content{{Role: "user", Parts: []Part{{Text: prompt}}}},
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return Verification{}, err
	}
	return ParseVerification(answer)
}

var errBadVerdict = errors.New("ai: 'is_valid' must be a boolean")

// ParseVerification decodes {"is_valid": bool, "reason": string}. Text that is
// not JSON counts as an invalid medicine.
func ParseVerification(answer string) (Verification, error) {
	answer = strings.TrimSpace(answer)
	answer = strings.TrimPrefix(answer, "```json")
	answer = strings.TrimSuffix(strings.TrimPrefix(answer, "```"), "```")

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(answer)), &raw); err != nil {
		reason := "Invalid response format from AI service"
		return Verification{IsValid: false, Reason: &reason}, nil
	}
	valid, ok := raw["is_valid"].(bool)
	if !ok {
		return Verification{}, errBadVerdict
	}
	if valid {
		return Verification{IsValid: true}, nil
	}
	reason, _ := raw["reason"].(string)
	if reason == "" {
		reason = "Medicine name not recognized"
	}
	return Verification{IsValid: false, Reason: &reason}, nil
}

const analysisFormat = "- **Condition**: [%s]\n" +
	"- **Description**: [%s]\n" +
	"- **Possible Diagnosis**: [%s]\n" +
	"- **Suggested Actions**: [%s]\n" +
	"- **Medication Suggestions**: [%s]\n" +
	"Include: 'Disclaimer: Not a substitute for professional medical advice.' at the end."

// AnalyzeImage describes visible health issues in an image.
func (s *Service) AnalyzeImage(ctx context.Context, mimeType string, image []byte) (string, error) {
	prompt := "Analyze the provided image for health-related content. Identify any visible medical conditions, injuries, " +
		"or skin issues with high specificity (e.g., rash, bruise, swelling, cut, burn). Structure the response as follows:\n" +
		fmt.Sprintf(analysisFormat,
			"Exact condition or 'Unable to determine' if unclear",
			"Detailed description of the observed issue, including any visible signs or abnormalities",
			"Specific diagnosis if detectable, e.g., 'Eczema', 'Second-degree burn', or 'N/A'",
			"Detailed steps, e.g., 'Clean with soap and water, apply antiseptic', 'Seek medical attention'",
			"Specific over-the-counter options, e.g., 'Hydrocortisone cream for inflammation', or 'N/A'")
	answer, err := s.gen.Generate(ctx, Request{
		Model: s.proModel,
		Contents: []Content{{Role: "user", Parts: []Part{
			{Text: prompt},
			{MIMEType: mimeType, Data: image},
		}}},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// SummarizeReport writes the health report summary for a user.
func (s *Service) SummarizeReport(ctx context.Context, username, logsJSON, previousAnalyses, imageAnalysis string) (string, error) {
	if imageAnalysis == "" {
		imageAnalysis = "No image analysis available."
	}
	prompt := fmt.Sprintf("Generate a detailed health report summary for user %s based on the following data:\n"+
		"Logs:\n%s\nPrevious Analyses:\n%s\nImage Analysis:\n%s\nStructure the response as follows:\n",
		username, logsJSON, previousAnalyses, imageAnalysis) +
		fmt.Sprintf(analysisFormat,
			"Overall health condition or 'N/A' if unclear, incorporating image and log data",
			"Detailed description based on logs, previous analyses, and image analysis",
			"General diagnosis if detectable, e.g., 'Fatigue', 'Typhoid Fever', or 'N/A'",
			"Comprehensive recommendations based on all data",
			"General suggestions based on all data, e.g., 'Multivitamins if deficient', 'N/A'")
	answer, err := s.text(ctx, s.proModel, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// Summary returns the analysis text before its disclaimer.
func Summary(analysis string) string {
	before, _, _ := strings.Cut(analysis, disclaimerMarker)
	return strings.TrimSpace(before)
}

const assistantPrompt = `You are the HealthChain assistant. You must follow these rules:
1. Answer general questions about sleep, hydration, nutrition, exercise, medication schedules and using the HealthChain app.
2. Never give a diagnosis or a prescription. For symptoms, suggest the symptom checker or booking an appointment with a doctor.
3. If someone describes an emergency, tell them to contact local emergency services immediately.
4. Keep answers short and friendly, and answer in the language of the user.`

// Chat answers a free-text question as the HealthChain assistant.
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	return s.gen.Generate(ctx, Request{
		Model: s.fastModel,
		Contents: []Content{
			{Role: "user", Parts: []Part{{Text: assistantPrompt}}},
			{Role: "model", Parts: []Part{{Text: "Understood. I will follow these rules."}}},
			{Role: "user", Parts: []Part{{Text: message}}},
		},
	})
}
