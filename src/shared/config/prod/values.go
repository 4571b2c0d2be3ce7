package prod

const GOOGLE_STORAGE_HOST = "https://storage.googleapis.com"
