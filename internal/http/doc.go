// Package http exposes the study planner screens as JSON endpoints.
//
// The router serves:
//   - GET /dashboard: next class, exams of the coming seven days and this week's
//     classes.
//   - GET|POST /timetable/study, PUT|DELETE /timetable/study/{id}: weekly classes,
//     listed grouped by day. Payloads use the `studyDTO` shape in timetable_handler.go.
//   - GET|POST /timetable/exams, PUT|DELETE /timetable/exams/{id}: exams ordered by
//     date.
//   - GET /timetable/week?date=YYYY-MM-DD: class occurrences of the week containing
//     date, today when omitted.
//   - GET|POST /planner/{activities|study}, PUT|DELETE /planner/{tab}/{id},
//     POST /planner/{tab}/{id}/toggle: the planner lists, newest first.
//   - GET /planner/screen, POST /planner/quick-add, POST /planner/screen/edit,
//     POST /planner/screen/save, POST /planner/screen/close: the planner form modal.
//   - GET|PUT /profile, POST /reset: the student profile and a full reset.
//   - GET /healthz: liveness, and storage reachability when a check is configured.
//
// Failures share one body, {"error_code","message","errors"}, with Thai messages:
// missing fields and bad ranges answer 422, time conflicts 409, unknown ids 404,
// undecodable bodies 400 and throttled clients 429.
package http
