package model

// AppID identifies this application to the parent app in webhook payloads.
const AppID = "study-planner"
