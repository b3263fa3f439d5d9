package study

import (
	"fmt"
	"strings"
)

const questionSystemPrompt = `You are an experienced university professor creating exam questions.
Your task is to create high-quality questions based on the provided content.
Format each question as a JSON object with the following structure:
{
    "question": "the question text",
    "type": "knowledge/application/analysis/evaluation",
    "context": "what this question tests",
    "difficulty": "easy/medium/hard",
    "hint": "a helpful hint",
    "key_points": ["point1", "point2"]
}
Return a JSON object of the form {"questions": [...]} holding these objects and nothing else.`

const validationSystemPrompt = "You are an experienced professor evaluating student answers."

func questionPrompt(chunk string, mode Mode, n int, focus []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on this content, create %d questions following this specific format:\n", n)
	b.WriteString(mode.instruction(n))
	b.WriteString("\n\n")
	if len(focus) > 0 {
		fmt.Fprintf(&b, "Concepts the material defines: %s.\n\n", strings.Join(focus, "; "))
	}
	b.WriteString("Content:\n")
	b.WriteString(chunk)
	b.WriteString("\n\nRemember to return {\"questions\": [...]} with each question as a proper JSON object.")
	return b.String()
}

func validationPrompt(question, context, answer string) string {
	return fmt.Sprintf(`Evaluate this student answer:

Question: %s
Context: %s
Student Answer: %s

Provide evaluation in this format:
{
    "score": (0-100),
    "feedback": "(brief feedback)",
    "strengths": ["point1", "point2"],
    "improvements": ["point1", "point2"],
    "tip": "(one specific improvement tip)"
}`, question, context, answer)
}
